package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const eventsTableSQL = `
CREATE TABLE IF NOT EXISTS events (
	event_id TEXT PRIMARY KEY,
	project  TEXT,
	payload  TEXT NOT NULL
)`

func createEventsTable(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(eventsTableSQL); err != nil {
		t.Fatalf("Failed to create events table: %v", err)
	}
}

// CreateInMemoryDB creates an in-memory SQLite database with an empty events table
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// Every pooled connection would otherwise get its own empty :memory: database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	createEventsTable(t, db)
	return db
}

// CreateTestDB creates an in-memory database holding SampleEvents
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)
	for _, e := range SampleEvents {
		InsertEvent(t, db, e.ID, e.Project, e.Payload)
	}
	return db
}

// InsertEvent inserts one event row
func InsertEvent(t *testing.T, db *sql.DB, eventID, project, payload string) {
	t.Helper()
	var projectArg interface{}
	if project != "" {
		projectArg = project
	}
	if _, err := db.Exec("INSERT INTO events (event_id, project, payload) VALUES (?, ?, ?)", eventID, projectArg, payload); err != nil {
		t.Fatalf("Failed to insert event %s: %v", eventID, err)
	}
}
