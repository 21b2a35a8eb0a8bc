package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Sample event payloads shared by fixtures. The first two belong to project
// "web", the third to "mobile".
var SampleEvents = []struct {
	ID      string
	Project string
	Payload string
}{
	{
		ID:      "evt-web-1",
		Project: "web",
		Payload: `{"id":"evt-web-1","dateCreated":"2024-03-01T10:00:00Z","platform":"javascript","contexts":{"browser":{"name":"Chrome","version":"122.0.0","type":"browser"},"os":{"name":"Mac OS X","version":"14.3","type":"os"},"trace":{"trace_id":"a1b2c3","span_id":"d4e5","op":"pageload","type":"trace"}},"user":{"id":"42","email":"jane@example.com"}}`,
	},
	{
		ID:      "evt-web-2",
		Project: "web",
		Payload: `{"id":"evt-web-2","dateCreated":"2024-03-01T11:00:00Z","platform":"javascript","contexts":{"browser":{"name":"Edge","version":"18.17763","type":"browser"},"react":{"version":"18.2.0"}}}`,
	},
	{
		ID:      "evt-mobile-1",
		Project: "mobile",
		Payload: `{"eventID":"evt-mobile-1","dateCreated":"2024-03-02T08:30:00Z","platform":"cocoa","contexts":{"device":{"model":"iPhone15,2","arch":"arm64e","memory_size":6442450944,"type":"device"},"os":{"name":"iOS","version":"17.3.1","type":"os"},"app":{"app_name":"Notes","app_version":"2.1","type":"app"}}}`,
	},
}

// CreateSQLiteFixture creates a SQLite event store holding SampleEvents
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createEventsTable(t, db)
	for _, e := range SampleEvents {
		InsertEvent(t, db, e.ID, e.Project, e.Payload)
	}
}

// CreateEventsFile writes raw content to name inside dir and returns its path
func CreateEventsFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write events file: %v", err)
	}
	return path
}

// CreateJSONLFixture writes SampleEvents as a JSONL file and returns its path
func CreateJSONLFixture(t *testing.T, dir string) string {
	t.Helper()
	content := ""
	for _, e := range SampleEvents {
		content += e.Payload + "\n"
	}
	return CreateEventsFile(t, dir, "events.jsonl", content)
}

// CreateJSONFixture writes SampleEvents as a JSON array and returns its path
func CreateJSONFixture(t *testing.T, dir string) string {
	t.Helper()
	content := "["
	for i, e := range SampleEvents {
		if i > 0 {
			content += ","
		}
		content += e.Payload
	}
	content += "]"
	return CreateEventsFile(t, dir, "events.json", content)
}

// CreateCacheFixture creates a cache file fixture
func CreateCacheFixture(t *testing.T, cachePath string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		t.Fatalf("Failed to create cache directory: %v", err)
	}
	if err := os.WriteFile(cachePath, data, 0644); err != nil {
		t.Fatalf("Failed to write cache file: %v", err)
	}
}
