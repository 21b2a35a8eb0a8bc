package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/event-contexts/internal/contexts"
)

// EventSource loads raw events from a file or database
type EventSource interface {
	// LoadEvents returns all events, in storage order
	LoadEvents() ([]*contexts.Event, error)
	// LoadEvent returns the event with the given id or eventID, or nil
	LoadEvent(id string) (*contexts.Event, error)
	// Path is the location events are read from; it keys the cache
	Path() string
	Close() error
}

// NewEventSource picks a backend by file extension: .db, .sqlite and
// .sqlite3 are SQLite stores, .jsonl and .ndjson are line-delimited, and
// anything else is read as a JSON document.
func NewEventSource(path string, project string) (EventSource, error) {
	if path == "" {
		return nil, fmt.Errorf("no event storage given: use --storage or set storage in the config file")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "stat", Err: err}
	}
	if info.IsDir() {
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("is a directory")}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteSource(path, project)
	case ".jsonl", ".ndjson":
		return &FileSource{path: path, lines: true}, nil
	default:
		return &FileSource{path: path}, nil
	}
}

// FileSource reads events from a JSON or JSONL file
type FileSource struct {
	path  string
	lines bool
}

// NewFileSource creates a FileSource; lines selects JSONL decoding
func NewFileSource(path string, lines bool) *FileSource {
	return &FileSource{path: path, lines: lines}
}

func (s *FileSource) Path() string { return s.path }

func (s *FileSource) Close() error { return nil }

// LoadEvents reads and decodes the whole file
func (s *FileSource) LoadEvents() ([]*contexts.Event, error) {
	if s.lines {
		f, err := os.Open(s.path)
		if err != nil {
			return nil, &StorageError{Path: s.path, Op: "open", Err: err}
		}
		defer f.Close()
		return ParseEventsJSONL(f, s.path)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "read", Err: err}
	}
	return ParseEvents(data, s.path)
}

// LoadEvent scans the file for a matching id
func (s *FileSource) LoadEvent(id string) (*contexts.Event, error) {
	events, err := s.LoadEvents()
	if err != nil {
		return nil, err
	}
	return findEvent(events, id), nil
}

// SQLiteSource reads events from the events table of a SQLite database
type SQLiteSource struct {
	path    string
	project string
	db      *sql.DB
}

// NewSQLiteSource opens the database read-only
func NewSQLiteSource(path, project string) (*SQLiteSource, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return &SQLiteSource{path: path, project: project, db: db}, nil
}

func (s *SQLiteSource) Path() string { return s.path }

func (s *SQLiteSource) Close() error { return s.db.Close() }

// DB exposes the underlying connection for schema inspection
func (s *SQLiteSource) DB() *sql.DB { return s.db }

// LoadEvents decodes every stored payload, skipping rows that fail to parse
func (s *SQLiteSource) LoadEvents() ([]*contexts.Event, error) {
	rows, err := QueryEvents(s.db, s.project)
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "query", Err: err}
	}

	events := make([]*contexts.Event, 0, len(rows))
	for _, row := range rows {
		event, err := s.decode(row)
		if err != nil {
			LogWarn("Skipping event: %v", err)
			continue
		}
		events = append(events, event)
	}
	LogDebug("Loaded %d events from %s", len(events), s.path)
	return events, nil
}

// LoadEvent looks the id up by primary key first, then scans payloads
func (s *SQLiteSource) LoadEvent(id string) (*contexts.Event, error) {
	row, ok, err := QueryEvent(s.db, id)
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "query", Err: err}
	}
	if ok {
		return s.decode(row)
	}

	events, err := s.LoadEvents()
	if err != nil {
		return nil, err
	}
	return findEvent(events, id), nil
}

func (s *SQLiteSource) decode(row EventRow) (*contexts.Event, error) {
	event, err := ParseEvent([]byte(row.Payload), s.path, row.EventID)
	if err != nil {
		return nil, err
	}
	if event.EventID == "" && event.ID == "" {
		event.EventID = row.EventID
	}
	if event.ProjectSlug == "" {
		event.ProjectSlug = row.Project
	}
	return event, nil
}

func findEvent(events []*contexts.Event, id string) *contexts.Event {
	for _, e := range events {
		if e.ID == id || e.EventID == id {
			return e
		}
	}
	return nil
}
