package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/iksnae/event-contexts/internal"
	"github.com/spf13/cobra"
)

var (
	listClearCache bool
	listPlatform   string
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	platformStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List events and their contexts",
	Long:  `List every event in the configured storage with the contexts attached to it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		loader, err := newReportLoader(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = loader.Close() }()

		if listClearCache {
			loader.ClearCache()
		}

		reports, err := loader.All(cmd.Context())
		if err != nil {
			return err
		}

		displayReports(cmd.OutOrStdout(), filterPlatform(reports, listPlatform))
		return nil
	},
}

func displayReports(out io.Writer, reports []*internal.Report) {
	if len(reports) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("📋 No events found"))
		return
	}

	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d event(s)", len(reports))))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Platform")+"\t"+titleStyle.Render("Project")+"\t"+titleStyle.Render("Entries")+"\t"+titleStyle.Render("Contexts")+"\t"+titleStyle.Render("Created")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 110))

	for _, report := range reports {
		id := report.EventID
		if id == "" {
			id = report.ID
		}
		if r := []rune(id); len(r) > 12 {
			id = string(r[:12])
		}

		aliases := strings.Join(report.Aliases(), ", ")
		if r := []rune(aliases); len(r) > 40 {
			aliases = string(r[:37]) + "..."
		}
		if aliases == "" {
			aliases = "—"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(id),
			platformStyle.Render(orDash(report.Platform)),
			orDash(report.Project),
			countStyle.Render(strconv.Itoa(report.Metadata.EntryCount)),
			aliases,
			dateStyle.Render(formatCreated(report.Metadata.DateCreated, time.Now())),
		)
	}

	_ = w.Flush()
	_, _ = fmt.Fprintln(out)

	first := reports[0].EventID
	if first == "" {
		first = reports[0].ID
	}
	_, _ = fmt.Fprintln(out, idStyle.Render("💡 Tip: Use the full ID (e.g., ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(first)+
		idStyle.Render(") with `event-contexts show <id>`"))
}

// formatCreated renders recent timestamps relative to now and older ones as a date
func formatCreated(created string, now time.Time) string {
	if created == "" {
		return "—"
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		if len(created) > 10 {
			return created[:10]
		}
		return created
	}
	if now.Sub(t) < 7*24*time.Hour {
		return humanize.RelTime(t, now, "ago", "from now")
	}
	return t.Format("2006-01-02")
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listClearCache, "clear-cache", false, "Rebuild reports instead of using the cache")
	listCmd.Flags().StringVar(&listPlatform, "platform", "", "Only list events from this platform")
}
