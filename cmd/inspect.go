package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iksnae/event-contexts/internal"
	"github.com/iksnae/event-contexts/internal/contexts"
	"github.com/spf13/cobra"
)

var (
	inspectFormat     string
	inspectSampleRows int
)

type inspectResult struct {
	Path     string         `json:"path"`
	Tables   []tableSummary `json:"tables,omitempty"`
	Events   int            `json:"events"`
	Contexts []contextUsage `json:"contexts"`
}

type tableSummary struct {
	Name    string                `json:"name"`
	Rows    int                   `json:"rows"`
	Columns []internal.ColumnInfo `json:"columns"`
	Sample  []map[string]string   `json:"sample,omitempty"`
}

// contextUsage counts how many events carry a context alias
type contextUsage struct {
	Alias    string `json:"alias"`
	Type     string `json:"type"`
	Count    int    `json:"count"`
	Platform bool   `json:"platform,omitempty"`
}

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [storage-path]",
	Short: "Inspect event storage and the contexts it carries",
	Long: `Inspect an event store and report:
  • Database schema (tables, columns, types) for SQLite stores
  • Row counts and sample rows
  • Which contexts events carry, how often, and the type they resolve to

Examples:
  event-contexts inspect events.db                 # Inspect a SQLite store
  event-contexts inspect --storage events.jsonl    # Context usage of a JSONL file
  event-contexts inspect events.db --format json --sample 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectFormat != "text" && inspectFormat != "json" {
			return fmt.Errorf("unsupported format: %s (supported: text, json)", inspectFormat)
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path = cfg.Storage
		}
		if path == "" {
			return fmt.Errorf("no storage found - pass a path or use --storage")
		}

		result, err := inspectStorage(path, projectSlug, inspectSampleRows)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if inspectFormat == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		printInspection(out, result, inspectSampleRows)
		return nil
	},
}

func inspectStorage(path, project string, sampleRows int) (*inspectResult, error) {
	source, err := internal.NewEventSource(path, project)
	if err != nil {
		return nil, err
	}
	defer func() { _ = source.Close() }()

	result := &inspectResult{Path: path}

	if sqlite, ok := source.(*internal.SQLiteSource); ok {
		tables, err := internal.ListTables(sqlite.DB())
		if err != nil {
			return nil, fmt.Errorf("failed to get tables: %w", err)
		}
		for _, name := range tables {
			summary, err := inspectTable(sqlite.DB(), name, sampleRows)
			if err != nil {
				internal.LogWarn("Error inspecting table %s: %v", name, err)
				continue
			}
			result.Tables = append(result.Tables, summary)
		}
	}

	events, err := source.LoadEvents()
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	result.Events = len(events)
	result.Contexts = countContexts(events)
	return result, nil
}

func inspectTable(db *sql.DB, name string, sampleRows int) (tableSummary, error) {
	summary := tableSummary{Name: name}

	var err error
	if summary.Rows, err = internal.CountRows(db, name); err != nil {
		return summary, err
	}
	if summary.Columns, err = internal.TableSchema(db, name); err != nil {
		return summary, fmt.Errorf("failed to get schema: %w", err)
	}
	if summary.Rows > 0 && sampleRows > 0 {
		if summary.Sample, err = sampleData(db, name, summary.Columns, sampleRows); err != nil {
			internal.LogWarn("Error reading sample data of %s: %v", name, err)
		}
	}
	return summary, nil
}

func sampleData(db *sql.DB, table string, columns []internal.ColumnInfo, limit int) ([]map[string]string, error) {
	if len(columns) == 0 {
		return nil, nil
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = internal.QuoteIdentifier(col.Name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s LIMIT %d", strings.Join(names, ", "), internal.QuoteIdentifier(table), limit)
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sample []map[string]string
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return sample, err
		}

		row := make(map[string]string, len(columns))
		for i, col := range columns {
			row[col.Name] = sampleValue(values[i])
		}
		sample = append(sample, row)
	}
	return sample, rows.Err()
}

func sampleValue(val any) string {
	if val == nil {
		return "<NULL>"
	}
	var s string
	if b, ok := val.([]byte); ok {
		s = string(b)
	} else {
		s = fmt.Sprintf("%v", val)
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "..."
	}
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// countContexts tallies context aliases over events, most frequent first
func countContexts(events []*contexts.Event) []contextUsage {
	byAlias := map[string]*contextUsage{}
	for _, event := range events {
		for _, item := range contexts.OrderedItems(event) {
			usage, ok := byAlias[item.Alias]
			if !ok {
				typ := contexts.ResolveType(item.Alias, item.Type)
				usage = &contextUsage{Alias: item.Alias, Type: typ, Platform: contexts.IsPlatformContext(typ)}
				byAlias[item.Alias] = usage
			}
			usage.Count++
		}
	}

	usages := make([]contextUsage, 0, len(byAlias))
	for _, u := range byAlias {
		usages = append(usages, *u)
	}
	sort.Slice(usages, func(i, j int) bool {
		if usages[i].Count != usages[j].Count {
			return usages[i].Count > usages[j].Count
		}
		return usages[i].Alias < usages[j].Alias
	})
	return usages
}

func printInspection(out io.Writer, result *inspectResult, sampleRows int) {
	_, _ = fmt.Fprintf(out, "📋 Storage: %s\n", filepath.Clean(result.Path))

	if len(result.Tables) > 0 {
		_, _ = fmt.Fprintf(out, "📊 Found %d table(s)\n\n", len(result.Tables))
	}
	for _, table := range result.Tables {
		_, _ = fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
		_, _ = fmt.Fprintf(out, "📦 Table: %s\n", table.Name)
		_, _ = fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
		_, _ = fmt.Fprintf(out, "📊 Rows: %d\n\n", table.Rows)

		_, _ = fmt.Fprintf(out, "📐 Schema:\n")
		for _, col := range table.Columns {
			pk := ""
			if col.PrimaryKey {
				pk = " [PRIMARY KEY]"
			}
			notNull := ""
			if col.NotNull {
				notNull = " NOT NULL"
			}
			_, _ = fmt.Fprintf(out, "  • %s: %s%s%s\n", col.Name, col.Type, notNull, pk)
		}
		_, _ = fmt.Fprintln(out)

		if len(table.Sample) > 0 {
			_, _ = fmt.Fprintf(out, "📄 Sample Data (first %d rows):\n", sampleRows)
			for i, row := range table.Sample {
				_, _ = fmt.Fprintf(out, "\n  Row %d:\n", i+1)
				for _, col := range table.Columns {
					_, _ = fmt.Fprintf(out, "    %s: %s\n", col.Name, row[col.Name])
				}
			}
			_, _ = fmt.Fprintln(out)
		}
	}

	_, _ = fmt.Fprintf(out, "\n🧩 Contexts across %d event(s):\n", result.Events)
	if len(result.Contexts) == 0 {
		_, _ = fmt.Fprintln(out, "  (none)")
		return
	}
	for _, usage := range result.Contexts {
		kind := usage.Type
		if usage.Platform {
			kind += " (platform)"
		}
		_, _ = fmt.Fprintf(out, "  • %-20s %-26s %d\n", usage.Alias, kind, usage.Count)
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "Output format (text, json)")
	inspectCmd.Flags().IntVar(&inspectSampleRows, "sample", 3, "Number of sample rows to show")
}
