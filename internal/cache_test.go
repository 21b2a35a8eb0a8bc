package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/iksnae/event-contexts/internal/contexts"
	"github.com/iksnae/event-contexts/testutil"
)

func TestCacheManager_Paths(t *testing.T) {
	cacheDir := testutil.CreateTempDir(t)
	cm := NewCacheManager(cacheDir)

	if got, want := cm.GetIndexPath(), filepath.Join(cacheDir, "reports.yaml"); got != want {
		t.Errorf("GetIndexPath() = %q, want %q", got, want)
	}
	if got, want := cm.GetReportPath("abc"), filepath.Join(cacheDir, "report_abc.json"); got != want {
		t.Errorf("GetReportPath() = %q, want %q", got, want)
	}
	if got, want := cm.GetReportPath("../x/y"), filepath.Join(cacheDir, "report_.._x_y.json"); got != want {
		t.Errorf("GetReportPath() = %q, want %q", got, want)
	}
}

func TestCacheManager_SaveAndLoadReports(t *testing.T) {
	cacheDir := testutil.CreateTempDir(t)
	sourcePath := testutil.CreateJSONFixture(t, testutil.CreateTempDir(t))
	cm := NewCacheManager(cacheDir)

	reports := []*Report{CreateTestReport("r1"), CreateTestReport("r2")}
	if err := cm.SaveReports(reports, sourcePath, "fp"); err != nil {
		t.Fatalf("SaveReports() error = %v", err)
	}

	loaded, err := cm.LoadAllReports()
	if err != nil {
		t.Fatalf("LoadAllReports() error = %v", err)
	}
	if diff := cmp.Diff(reports, loaded); diff != "" {
		t.Errorf("reports changed across the cache (-want +got):\n%s", diff)
	}

	index, err := cm.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex() error = %v", err)
	}
	if len(index.Reports) != 2 {
		t.Fatalf("index has %d entries, want 2", len(index.Reports))
	}
	if got := index.Reports[0].Aliases; len(got) != 2 || got[0] != "os" || got[1] != "user" {
		t.Errorf("index aliases = %v, want [os user]", got)
	}
	if index.Metadata.SourcePath != sourcePath {
		t.Errorf("index source = %q, want %q", index.Metadata.SourcePath, sourcePath)
	}
}

func TestCacheManager_FindReport(t *testing.T) {
	cm := NewCacheManager(testutil.CreateTempDir(t))
	sourcePath := testutil.CreateJSONFixture(t, testutil.CreateTempDir(t))

	report := CreateTestReport("r1")
	report.EventID = "event-1"
	if err := cm.SaveReports([]*Report{report}, sourcePath, "fp"); err != nil {
		t.Fatalf("SaveReports() error = %v", err)
	}

	for _, id := range []string{"r1", "event-1"} {
		got, err := cm.FindReport(id)
		if err != nil {
			t.Fatalf("FindReport(%q) error = %v", id, err)
		}
		if got.ID != "r1" {
			t.Errorf("FindReport(%q).ID = %q, want r1", id, got.ID)
		}
	}

	if _, err := cm.FindReport("missing"); !os.IsNotExist(err) {
		t.Errorf("FindReport(missing) error = %v, want not-exist", err)
	}
}

func TestCacheManager_IsCacheValid(t *testing.T) {
	sourcePath := testutil.CreateJSONFixture(t, testutil.CreateTempDir(t))

	tests := []struct {
		name  string
		setup func(cm *CacheManager)
		want  bool
	}{
		{
			name:  "no cache",
			setup: func(cm *CacheManager) {},
			want:  false,
		},
		{
			name: "fresh cache",
			setup: func(cm *CacheManager) {
				_ = cm.SaveReports([]*Report{CreateTestReport("r1")}, sourcePath, "fp")
			},
			want: true,
		},
		{
			name: "source modified",
			setup: func(cm *CacheManager) {
				_ = cm.SaveReports([]*Report{CreateTestReport("r1")}, sourcePath, "fp")
				later := time.Now().Add(time.Hour)
				_ = os.Chtimes(sourcePath, later, later)
			},
			want: false,
		},
		{
			name: "different source",
			setup: func(cm *CacheManager) {
				other := testutil.CreateJSONLFixture(t, testutil.CreateTempDir(t))
				_ = cm.SaveReports([]*Report{CreateTestReport("r1")}, other, "fp")
			},
			want: false,
		},
		{
			name: "different settings",
			setup: func(cm *CacheManager) {
				_ = cm.SaveReports([]*Report{CreateTestReport("r1")}, sourcePath, "other-fp")
			},
			want: false,
		},
		{
			name: "old cache version",
			setup: func(cm *CacheManager) {
				_ = cm.SaveReports([]*Report{CreateTestReport("r1")}, sourcePath, "fp")
				index, _ := cm.LoadIndex()
				index.Metadata.CacheVersion = "1.0"
				_ = cm.SaveIndex(index)
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := NewCacheManager(testutil.CreateTempDir(t))
			tt.setup(cm)

			got, err := cm.IsCacheValid(sourcePath, "fp")
			if err != nil {
				t.Fatalf("IsCacheValid() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsCacheValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCacheManager_SaveReportsReplacesOldFiles(t *testing.T) {
	cm := NewCacheManager(testutil.CreateTempDir(t))
	sourcePath := testutil.CreateJSONFixture(t, testutil.CreateTempDir(t))

	if err := cm.SaveReports([]*Report{CreateTestReport("old")}, sourcePath, "fp"); err != nil {
		t.Fatalf("SaveReports() error = %v", err)
	}
	if err := cm.SaveReports([]*Report{CreateTestReport("new")}, sourcePath, "fp"); err != nil {
		t.Fatalf("SaveReports() error = %v", err)
	}

	if _, err := os.Stat(cm.GetReportPath("old")); !os.IsNotExist(err) {
		t.Errorf("stale report file should be removed, stat error = %v", err)
	}
	if _, err := cm.LoadReport("new"); err != nil {
		t.Errorf("LoadReport(new) error = %v", err)
	}
}

func TestCacheManager_ClearCache(t *testing.T) {
	cm := NewCacheManager(testutil.CreateTempDir(t))
	sourcePath := testutil.CreateJSONFixture(t, testutil.CreateTempDir(t))

	if err := cm.ClearCache(); err != nil {
		t.Errorf("ClearCache() on empty dir error = %v", err)
	}

	_ = cm.SaveReports([]*Report{CreateTestReport("r1")}, sourcePath, "fp")
	if err := cm.ClearCache(); err != nil {
		t.Fatalf("ClearCache() error = %v", err)
	}
	if _, err := os.Stat(cm.GetIndexPath()); !os.IsNotExist(err) {
		t.Error("index should be removed")
	}
	if _, err := os.Stat(cm.GetReportPath("r1")); !os.IsNotExist(err) {
		t.Error("report file should be removed")
	}
}

func TestCacheManager_EventsSharingAnID(t *testing.T) {
	captureLogs(t)
	cm := NewCacheManager(testutil.CreateTempDir(t))
	sourcePath := testutil.CreateJSONFixture(t, testutil.CreateTempDir(t))

	events := []*contexts.Event{
		CreateTestEventWithContexts("x", `{"os":{"name":"A"}}`),
		CreateTestEventWithContexts("x", `{"os":{"name":"B"}}`),
	}
	reports, err := NewNormalizer(nil).NormalizeAll(context.Background(), events, sourcePath)
	if err != nil {
		t.Fatalf("NormalizeAll() error = %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("NormalizeAll() returned %d reports, want 2", len(reports))
	}
	if reports[0].ID != "x" {
		t.Errorf("first report id = %q, want x", reports[0].ID)
	}
	if reports[1].ID == "x" || reports[1].EventID != "x" {
		t.Errorf("second report id = %q (event %q), want a distinct id for event x", reports[1].ID, reports[1].EventID)
	}

	if err := cm.SaveReports(reports, sourcePath, "fp"); err != nil {
		t.Fatalf("SaveReports() error = %v", err)
	}
	loaded, err := cm.LoadAllReports()
	if err != nil {
		t.Fatalf("LoadAllReports() error = %v", err)
	}

	var names []string
	for _, r := range loaded {
		card, ok := r.Card("os")
		if !ok {
			t.Fatalf("report %s has no os card", r.ID)
		}
		names = append(names, card.Summary.Title.String())
	}
	if diff := cmp.Diff([]string{"A", "B"}, names); diff != "" {
		t.Errorf("cached os names (-want +got):\n%s", diff)
	}
}

func TestCacheManager_SaveReportsSkipsCollidingFiles(t *testing.T) {
	captureLogs(t)
	cm := NewCacheManager(testutil.CreateTempDir(t))
	sourcePath := testutil.CreateJSONFixture(t, testutil.CreateTempDir(t))

	// Both ids map to report_a_b.json
	reports := []*Report{CreateTestReport("a/b"), CreateTestReport("a_b")}
	if err := cm.SaveReports(reports, sourcePath, "fp"); err != nil {
		t.Fatalf("SaveReports() error = %v", err)
	}

	loaded, err := cm.LoadAllReports()
	if err != nil {
		t.Fatalf("LoadAllReports() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "a/b" {
		t.Errorf("LoadAllReports() = %d report(s), want only a/b", len(loaded))
	}
}
