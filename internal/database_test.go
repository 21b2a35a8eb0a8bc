package internal

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iksnae/event-contexts/testutil"
)

func TestOpenDatabase(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "valid database",
			setup: func(t *testing.T) string {
				dbPath := filepath.Join(testutil.CreateTempDir(t), "events.db")
				testutil.CreateSQLiteFixture(t, dbPath)
				return dbPath
			},
		},
		{
			name: "non-existent database",
			setup: func(t *testing.T) string {
				// read-only mode fails at ping rather than open
				return filepath.Join(testutil.CreateTempDir(t), "missing.db")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := OpenDatabase(tt.setup(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenDatabase() error = %v, wantErr %v", err, tt.wantErr)
			}
			if db != nil {
				db.Close()
			}
		})
	}
}

func TestQueryEvents(t *testing.T) {
	db := testutil.CreateTestDB(t)
	testutil.InsertEvent(t, db, "evt-orphan", "", `{"id":"evt-orphan"}`)

	tests := []struct {
		project string
		want    []string
	}{
		{project: "", want: []string{"evt-web-1", "evt-web-2", "evt-mobile-1", "evt-orphan"}},
		{project: "web", want: []string{"evt-web-1", "evt-web-2"}},
		{project: "mobile", want: []string{"evt-mobile-1"}},
		{project: "nope", want: nil},
	}

	for _, tt := range tests {
		t.Run("project="+tt.project, func(t *testing.T) {
			rows, err := QueryEvents(db, tt.project)
			if err != nil {
				t.Fatalf("QueryEvents() error = %v", err)
			}
			if len(rows) != len(tt.want) {
				t.Fatalf("QueryEvents() returned %d rows, want %d", len(rows), len(tt.want))
			}
			for i, row := range rows {
				if row.EventID != tt.want[i] {
					t.Errorf("row %d EventID = %q, want %q", i, row.EventID, tt.want[i])
				}
			}
		})
	}
}

func TestQueryEvent(t *testing.T) {
	db := testutil.CreateTestDB(t)

	row, ok, err := QueryEvent(db, "evt-mobile-1")
	if err != nil || !ok {
		t.Fatalf("QueryEvent() = %v, %v, want a row", ok, err)
	}
	if row.Project != "mobile" {
		t.Errorf("Project = %q, want mobile", row.Project)
	}

	_, ok, err = QueryEvent(db, "missing")
	if err != nil {
		t.Fatalf("QueryEvent(missing) error = %v", err)
	}
	if ok {
		t.Error("QueryEvent(missing) should report no row")
	}
}

func TestSchemaInspection(t *testing.T) {
	db := testutil.CreateTestDB(t)

	tables, err := ListTables(db)
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	if len(tables) != 1 || tables[0] != "events" {
		t.Fatalf("ListTables() = %v, want [events]", tables)
	}

	columns, err := TableSchema(db, "events")
	if err != nil {
		t.Fatalf("TableSchema() error = %v", err)
	}
	if len(columns) != 3 {
		t.Fatalf("TableSchema() returned %d columns, want 3", len(columns))
	}
	if columns[0].Name != "event_id" || !columns[0].PrimaryKey {
		t.Errorf("first column = %+v, want event_id primary key", columns[0])
	}
	if columns[2].Name != "payload" || !columns[2].NotNull {
		t.Errorf("third column = %+v, want payload NOT NULL", columns[2])
	}

	n, err := CountRows(db, "events")
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if n != len(testutil.SampleEvents) {
		t.Errorf("CountRows() = %d, want %d", n, len(testutil.SampleEvents))
	}
}

func TestEventsSchema_MatchesFixtures(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	db.SetMaxOpenConns(1)
	defer db.Close()

	if _, err := db.Exec(EventsSchema); err != nil {
		t.Fatalf("creating events table: %v", err)
	}

	got, err := TableSchema(db, "events")
	if err != nil {
		t.Fatalf("TableSchema() error = %v", err)
	}
	want, err := TableSchema(testutil.CreateInMemoryDB(t), "events")
	if err != nil {
		t.Fatalf("TableSchema(fixture) error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EventsSchema differs from fixture schema (-fixture +schema):\n%s", diff)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := map[string]string{
		"events":    `"events"`,
		`we"ird`:    `"we""ird"`,
		`tab\there`: `"tab\there"`,
		"":          `""`,
		`"quoted"`:  `"""quoted"""`,
	}
	for name, want := range tests {
		if got := QuoteIdentifier(name); got != want {
			t.Errorf("QuoteIdentifier(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestSchemaInspection_OddTableNames(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	if _, err := db.Exec(`CREATE TABLE "odd""name\x" ("col""one" TEXT NOT NULL)`); err != nil {
		t.Fatalf("creating table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO "odd""name\x" VALUES ('v')`); err != nil {
		t.Fatalf("inserting row: %v", err)
	}

	table := `odd"name\x`
	columns, err := TableSchema(db, table)
	if err != nil {
		t.Fatalf("TableSchema() error = %v", err)
	}
	if len(columns) != 1 || columns[0].Name != `col"one` {
		t.Errorf("TableSchema() = %+v, want one column named col\"one", columns)
	}

	n, err := CountRows(db, table)
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountRows() = %d, want 1", n)
	}
}
