package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/iksnae/event-contexts/internal"
	"github.com/iksnae/event-contexts/internal/contexts"
	"github.com/iksnae/event-contexts/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand(t *testing.T) {
	jsonl := testutil.CreateJSONLFixture(t, testutil.CreateTempDir(t))
	db := sqliteStore(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
		wantErr bool
	}{
		{
			name: "sqlite store",
			args: []string{"--storage", db, "list"},
			want: []string{"Found 3 event(s)", "evt-web-1", "evt-mobile-1", "user, browser, os, trace"},
		},
		{
			name:    "sqlite store filtered by project",
			args:    []string{"--storage", db, "--project", "web", "list"},
			want:    []string{"Found 2 event(s)", "evt-web-2"},
			notWant: []string{"evt-mobile-1"},
		},
		{
			name:    "jsonl filtered by platform",
			args:    []string{"--storage", jsonl, "list", "--platform", "cocoa"},
			want:    []string{"Found 1 event(s)", "evt-mobile-1", "device, os, app"},
			notWant: []string{"evt-web-1"},
		},
		{
			name:    "missing storage",
			args:    []string{"--storage", filepath.Join(testutil.CreateTempDir(t), "nope.db"), "list"},
			wantErr: true,
		},
		{
			name:    "no storage configured",
			args:    []string{"list"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--cache-dir", testutil.CreateTempDir(t)}, tt.args...)
			out, err := executeCommand(t, args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("list error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out, w)
			}
		})
	}
}

func TestListCommand_UsesCache(t *testing.T) {
	store := testutil.CreateJSONFixture(t, testutil.CreateTempDir(t))
	cache := testutil.CreateTempDir(t)

	first, err := executeCommand(t, "--storage", store, "--cache-dir", cache, "list")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cache, "reports.yaml"))
	require.NoError(t, err, "list should write the report index")

	second, err := executeCommand(t, "--storage", store, "--cache-dir", cache, "list")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A different organization changes links, so the cache is rebuilt
	cm := internal.NewCacheManager(cache)
	before, err := cm.LoadIndex()
	require.NoError(t, err)

	_, err = executeCommand(t, "--storage", store, "--cache-dir", cache, "--org", "acme", "list")
	require.NoError(t, err)
	after, err := cm.LoadIndex()
	require.NoError(t, err)
	assert.NotEqual(t, before.Metadata.Fingerprint, after.Metadata.Fingerprint)
}

func TestDisplayReports_Empty(t *testing.T) {
	var buf bytes.Buffer
	displayReports(&buf, nil)
	assert.Contains(t, buf.String(), "No events found")
}

func TestDisplayReports_TruncatesLongIDs(t *testing.T) {
	report := internal.CreateTestReport("0123456789abcdef0123")
	var buf bytes.Buffer
	displayReports(&buf, []*internal.Report{report})

	out := buf.String()
	assert.Contains(t, out, "0123456789ab")
	assert.True(t, strings.Contains(out, "0123456789abcdef0123"), "tip line keeps the full id")
	assert.Contains(t, out, "os, user")
}

func TestDisplayReports_TruncatesByRune(t *testing.T) {
	report := internal.CreateTestReport("идентификатор-события")
	report.Cards = []contexts.Card{{Alias: strings.Repeat("é", 50)}}
	var buf bytes.Buffer
	displayReports(&buf, []*internal.Report{report})

	out := buf.String()
	assert.True(t, utf8.ValidString(out), "output must stay valid UTF-8")
	assert.Contains(t, out, "идентификато")
	assert.Contains(t, out, strings.Repeat("é", 37)+"...")
	assert.NotContains(t, out, strings.Repeat("é", 38))
}

func TestFormatCreated(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		created string
		want    string
	}{
		{name: "empty", created: "", want: "—"},
		{name: "recent", created: "2024-03-10T10:00:00Z", want: "2 hours ago"},
		{name: "old", created: "2023-12-25T08:00:00Z", want: "2023-12-25"},
		{name: "unparseable", created: "2024-03-01 bogus", want: "2024-03-01"},
		{name: "short", created: "soon", want: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCreated(tt.created, now))
		})
	}
}

func TestListCommand_CorruptCacheIsRebuilt(t *testing.T) {
	store := testutil.CreateJSONFixture(t, testutil.CreateTempDir(t))
	cache := testutil.CreateTempDir(t)
	testutil.CreateCacheFixture(t, filepath.Join(cache, "reports.yaml"), []byte("reports: [unterminated"))

	out, err := executeCommand(t, "--storage", store, "--cache-dir", cache, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 event(s)")

	index, err := internal.NewCacheManager(cache).LoadIndex()
	require.NoError(t, err, "the index should be rewritten")
	assert.Len(t, index.Reports, 3)
}
