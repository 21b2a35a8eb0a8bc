package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/iksnae/event-contexts/internal"
	"github.com/iksnae/event-contexts/internal/contexts"
)

// reportLoader builds reports from the configured event source, going
// through the report cache when it is still fresh
type reportLoader struct {
	source      internal.EventSource
	cache       *internal.CacheManager
	normalizer  *internal.Normalizer
	fingerprint string
}

func newReportLoader(cfg *internal.Config) (*reportLoader, error) {
	source, err := internal.NewEventSource(cfg.Storage, cfg.Project.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to open event storage: %w", err)
	}

	dir, err := cfg.ResolvedCacheDir()
	if err != nil {
		_ = source.Close()
		return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
	}

	normalizer := cfg.NewNormalizer()
	return &reportLoader{
		source:      source,
		cache:       internal.NewCacheManager(dir),
		normalizer:  normalizer,
		fingerprint: normalizer.Fingerprint(),
	}, nil
}

func (l *reportLoader) Close() error {
	return l.source.Close()
}

func (l *reportLoader) ClearCache() {
	if err := l.cache.ClearCache(); err != nil {
		internal.LogWarn("Failed to clear cache: %v", err)
	} else {
		internal.LogInfo("Cache cleared")
	}
}

func (l *reportLoader) cacheValid() bool {
	valid, err := l.cache.IsCacheValid(l.source.Path(), l.fingerprint)
	if err != nil {
		internal.LogDebug("Cache validation error: %v", err)
		return false
	}
	return valid
}

// All returns a report for every distinct event in the source
func (l *reportLoader) All(ctx context.Context) ([]*internal.Report, error) {
	if l.cacheValid() {
		internal.LogInfo("Loading reports from cache...")
		reports, err := l.cache.LoadAllReports()
		if err == nil {
			internal.LogInfo("Loaded %d report(s) from cache", len(reports))
			return reports, nil
		}
		internal.LogWarn("Failed to load cache: %v, rebuilding...", err)
	}

	var (
		events  []*contexts.Event
		reports []*internal.Report
	)
	steps := []internal.ProgressStep{
		{
			Message: "Loading events from " + l.source.Path(),
			Fn: func() error {
				loaded, err := l.source.LoadEvents()
				if err != nil {
					return err
				}
				events = internal.NewDeduplicator().Deduplicate(loaded)
				if dropped := len(loaded) - len(events); dropped > 0 {
					internal.LogInfo("Dropped %d duplicate event(s)", dropped)
				}
				return nil
			},
		},
		{
			Message: "Classifying contexts",
			Fn: func() error {
				var err error
				reports, err = l.normalizer.NormalizeAll(ctx, events, l.source.Path())
				return err
			},
		},
		{
			Message: "Caching reports",
			Fn: func() error {
				if err := l.cache.SaveReports(reports, l.source.Path(), l.fingerprint); err != nil {
					internal.LogWarn("Failed to save cache: %v", err)
				}
				return nil
			},
		},
	}

	if err := internal.ShowProgressWithSteps(ctx, steps); err != nil {
		return nil, err
	}
	return reports, nil
}

// Find returns the report for one event, matched by report id or event id.
// Ids of events stored without one are derived, so those fall back to
// building every report.
func (l *reportLoader) Find(ctx context.Context, id string) (*internal.Report, error) {
	if l.cacheValid() {
		report, err := l.cache.FindReport(id)
		if err == nil {
			internal.LogDebug("Found report %s in cache", id)
			return report, nil
		}
		if os.IsNotExist(err) {
			return nil, notFoundError(id)
		}
		internal.LogDebug("Cache lookup failed: %v", err)
	}

	event, err := l.source.LoadEvent(id)
	if err != nil {
		return nil, err
	}
	if event != nil {
		return l.normalizer.NormalizeEvent(event, l.source.Path())
	}

	reports, err := l.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, notFoundError(id)
}

func notFoundError(id string) error {
	return fmt.Errorf("event not found: %s (use 'event-contexts list' to see available events)", id)
}

// filterPlatform keeps the reports of one platform; an empty platform keeps all
func filterPlatform(reports []*internal.Report, platform string) []*internal.Report {
	if platform == "" {
		return reports
	}
	filtered := make([]*internal.Report, 0, len(reports))
	for _, r := range reports {
		if r.Platform == platform {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
