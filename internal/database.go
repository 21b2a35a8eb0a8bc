package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// EventsSchema creates the table event stores are expected to carry
const EventsSchema = `
CREATE TABLE IF NOT EXISTS events (
	event_id TEXT PRIMARY KEY,
	project  TEXT,
	payload  TEXT NOT NULL
)`

// EventRow is one stored event payload
type EventRow struct {
	EventID string
	Project string
	Payload string
}

// ColumnInfo describes a table column as reported by PRAGMA table_info
type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// OpenDatabase opens a SQLite database in read-only mode
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// QueryEvents returns stored events, optionally restricted to one project
func QueryEvents(db *sql.DB, project string) ([]EventRow, error) {
	query := "SELECT event_id, project, payload FROM events WHERE payload IS NOT NULL"
	var args []interface{}
	if project != "" {
		query += " AND project = ?"
		args = append(args, project)
	}
	query += " ORDER BY rowid"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var events []EventRow
	for rows.Next() {
		row, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return events, nil
}

// QueryEvent returns a single event by id. The bool is false when no row matches.
func QueryEvent(db *sql.DB, eventID string) (EventRow, bool, error) {
	row := db.QueryRow("SELECT event_id, project, payload FROM events WHERE event_id = ?", eventID)
	event, err := scanEventRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return EventRow{}, false, nil
	}
	if err != nil {
		return EventRow{}, false, err
	}
	return event, true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEventRow(s rowScanner) (EventRow, error) {
	var row EventRow
	var project sql.NullString
	if err := s.Scan(&row.EventID, &project, &row.Payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, err
		}
		return row, fmt.Errorf("scan failed: %w", err)
	}
	row.Project = project.String
	return row, nil
}

// ListTables returns user tables in name order
func ListTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// QuoteIdentifier quotes a table or column name for use in SQL
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// TableSchema returns the columns of a table
func TableSchema(db *sql.DB, table string) ([]ColumnInfo, error) {
	rows, err := db.Query("PRAGMA table_info(" + QuoteIdentifier(table) + ")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var cid, notNull, pk int
		var defaultValue sql.NullString
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		col.NotNull = notNull == 1
		col.PrimaryKey = pk > 0
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// CountRows returns the number of rows in a table
func CountRows(db *sql.DB, table string) (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + QuoteIdentifier(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return n, nil
}
