package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// cacheVersion changes whenever the report layout does, invalidating old caches
const cacheVersion = "2"

// CacheManager stores built reports on disk next to a YAML index
type CacheManager struct {
	cacheDir string
}

// CacheMetadata records which event source the cache was built from
type CacheMetadata struct {
	SourcePath    string    `json:"source_path" yaml:"source_path"`
	SourceModTime time.Time `json:"source_mod_time" yaml:"source_mod_time"`
	// Fingerprint identifies the normalizer settings the reports were built with
	Fingerprint   string    `json:"fingerprint" yaml:"fingerprint"`
	CacheVersion  string    `json:"cache_version" yaml:"cache_version"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// ReportIndexEntry summarizes one cached report
type ReportIndexEntry struct {
	ID           string   `yaml:"id"`
	EventID      string   `yaml:"event_id,omitempty"`
	Project      string   `yaml:"project,omitempty"`
	Platform     string   `yaml:"platform,omitempty"`
	DateCreated  string   `yaml:"date_created,omitempty"`
	Aliases      []string `yaml:"aliases,flow"`
	ContextCount int      `yaml:"context_count"`
	EntryCount   int      `yaml:"entry_count"`
}

// ReportIndex is the YAML index of all cached reports
type ReportIndex struct {
	Reports  []ReportIndexEntry `yaml:"reports"`
	Metadata CacheMetadata      `yaml:"metadata"`
}

// NewCacheManager creates a new cache manager
func NewCacheManager(cacheDir string) *CacheManager {
	return &CacheManager{cacheDir: cacheDir}
}

// EnsureCacheDir ensures the cache directory exists
func (cm *CacheManager) EnsureCacheDir() error {
	return os.MkdirAll(cm.cacheDir, 0755)
}

// GetCacheDir returns the cache directory path
func (cm *CacheManager) GetCacheDir() string {
	return cm.cacheDir
}

// GetIndexPath returns the path to the report index YAML file
func (cm *CacheManager) GetIndexPath() string {
	return filepath.Join(cm.cacheDir, "reports.yaml")
}

// GetReportPath returns the path to a report's cache file
func (cm *CacheManager) GetReportPath(reportID string) string {
	return filepath.Join(cm.cacheDir, fmt.Sprintf("report_%s.json", SafeFileName(reportID)))
}

// IsCacheValid reports whether the index was built from sourcePath as it is
// now, with the same normalizer settings
func (cm *CacheManager) IsCacheValid(sourcePath, fingerprint string) (bool, error) {
	index, err := cm.LoadIndex()
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	meta := index.Metadata
	if meta.CacheVersion != cacheVersion || meta.SourcePath != sourcePath || meta.Fingerprint != fingerprint {
		return false, nil
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return false, nil
	}
	return meta.SourceModTime.Equal(info.ModTime()), nil
}

// LoadIndex loads the report index
func (cm *CacheManager) LoadIndex() (*ReportIndex, error) {
	data, err := os.ReadFile(cm.GetIndexPath())
	if err != nil {
		return nil, err
	}

	var index ReportIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}
	return &index, nil
}

// SaveIndex writes the report index
func (cm *CacheManager) SaveIndex(index *ReportIndex) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return err
	}

	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	return os.WriteFile(cm.GetIndexPath(), data, 0644)
}

// SaveReport writes a single report to its cache file
func (cm *CacheManager) SaveReport(report *Report) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(cm.GetReportPath(report.ID), data, 0644)
}

// LoadReport loads a single report from its cache file
func (cm *CacheManager) LoadReport(reportID string) (*Report, error) {
	data, err := os.ReadFile(cm.GetReportPath(reportID))
	if err != nil {
		return nil, err
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// FindReport looks a report up by report id or event id
func (cm *CacheManager) FindReport(id string) (*Report, error) {
	index, err := cm.LoadIndex()
	if err != nil {
		return nil, err
	}
	for _, entry := range index.Reports {
		if entry.ID == id || entry.EventID == id {
			return cm.LoadReport(entry.ID)
		}
	}
	return nil, os.ErrNotExist
}

// LoadAllReports loads every indexed report, skipping unreadable files
func (cm *CacheManager) LoadAllReports() ([]*Report, error) {
	index, err := cm.LoadIndex()
	if err != nil {
		return nil, err
	}

	reports := make([]*Report, 0, len(index.Reports))
	for _, entry := range index.Reports {
		report, err := cm.LoadReport(entry.ID)
		if err != nil {
			LogWarn("Failed to load cached report %s: %v", entry.ID, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// SaveReports replaces the cache with reports built from sourcePath
func (cm *CacheManager) SaveReports(reports []*Report, sourcePath, fingerprint string) error {
	if err := cm.EnsureCacheDir(); err != nil {
		return err
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return &StorageError{Path: sourcePath, Op: "stat", Err: err}
	}

	if err := cm.ClearCache(); err != nil {
		LogWarn("Failed to clear old cache: %v", err)
	}

	now := time.Now()
	index := ReportIndex{
		Reports: make([]ReportIndexEntry, 0, len(reports)),
		Metadata: CacheMetadata{
			SourcePath:    sourcePath,
			SourceModTime: info.ModTime(),
			Fingerprint:   fingerprint,
			CacheVersion:  cacheVersion,
			CreatedAt:     now,
			UpdatedAt:     now,
		},
	}

	saved := make(map[string]string, len(reports))
	for _, report := range reports {
		path := cm.GetReportPath(report.ID)
		if prev, ok := saved[path]; ok {
			LogWarn("Not caching report %s: its file is already used by %s", report.ID, prev)
			continue
		}
		saved[path] = report.ID
		if err := cm.SaveReport(report); err != nil {
			LogWarn("Failed to save report %s: %v", report.ID, err)
			continue
		}
		index.Reports = append(index.Reports, indexEntry(report))
	}

	return cm.SaveIndex(&index)
}

// ClearCache removes every cached report and the index
func (cm *CacheManager) ClearCache() error {
	if index, err := cm.LoadIndex(); err == nil {
		for _, entry := range index.Reports {
			_ = os.Remove(cm.GetReportPath(entry.ID))
		}
	}

	if err := os.Remove(cm.GetIndexPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func indexEntry(report *Report) ReportIndexEntry {
	return ReportIndexEntry{
		ID:           report.ID,
		EventID:      report.EventID,
		Project:      report.Project,
		Platform:     report.Platform,
		DateCreated:  report.Metadata.DateCreated,
		Aliases:      report.Aliases(),
		ContextCount: report.Metadata.ContextCount,
		EntryCount:   report.Metadata.EntryCount,
	}
}

// SafeFileName maps characters that would escape a directory to underscores
func SafeFileName(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, id)
}
