package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/event-contexts/internal"
	"github.com/iksnae/event-contexts/internal/contexts"
	"github.com/spf13/cobra"
)

var (
	showAliases []string
	showLinks   bool
)

var (
	// Styles for show command
	reportHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1)

	reportMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	cardIconStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Italic(true)

	subjectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Underline(true)

	annotatedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show the context cards of an event",
	Long: `Render every context attached to an event as a card: a title with its
icon, a one-line summary and a key/value table.`,
	Args: cobra.ExactArgs(1),
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

		report, err := loader.Find(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		displayReportHeader(out, report)

		shown := 0
		for _, card := range report.Cards {
			if !aliasSelected(card.Alias, showAliases) {
				continue
			}
			displayCard(out, card, showLinks)
			shown++
		}

		if shown == 0 && len(showAliases) > 0 {
			return fmt.Errorf("no context matching %s (available: %s)",
				strings.Join(showAliases, ", "), strings.Join(report.Aliases(), ", "))
		}
		return nil
	},
}

func aliasSelected(alias string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == alias {
			return true
		}
	}
	return false
}

func displayReportHeader(out io.Writer, report *internal.Report) {
	id := report.EventID
	if id == "" {
		id = report.ID
	}
	_, _ = fmt.Fprintln(out, reportHeaderStyle.Render("🧾 Event "+id))

	var metaParts []string
	if report.Project != "" {
		metaParts = append(metaParts, "Project: "+report.Project)
	}
	if report.Platform != "" {
		metaParts = append(metaParts, "Platform: "+report.Platform)
	}
	if report.Metadata.DateCreated != "" {
		metaParts = append(metaParts, "Created: "+report.Metadata.DateCreated)
	}
	metaParts = append(metaParts, fmt.Sprintf("Contexts: %d", report.Metadata.ContextCount))
	_, _ = fmt.Fprintln(out, reportMetaStyle.Render(strings.Join(metaParts, " • ")))
	_, _ = fmt.Fprintln(out)
}

func displayCard(out io.Writer, card contexts.Card, links bool) {
	header := cardTitleStyle.Render(card.Title)
	if !card.Icon.IsZero() {
		header = cardIconStyle.Render(fmt.Sprintf("[%s:%s]", card.Icon.Kind, card.Icon.Name)) + " " + header
	}
	if card.Alias != card.Title {
		header += " " + subjectStyle.Render("("+card.Alias+")")
	}
	_, _ = fmt.Fprintln(out, header)

	if line := cardSummary(card.Summary); line != "" {
		_, _ = fmt.Fprintln(out, "  "+summaryStyle.Render(line))
	}

	if len(card.Entries) == 0 {
		_, _ = fmt.Fprintln(out, "  "+subjectStyle.Render("(no data)"))
		_, _ = fmt.Fprintln(out)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, entry := range card.Entries {
		value := entry.Value.String()
		if strings.Contains(value, "\n") {
			value = strings.ReplaceAll(value, "\n", " ")
		}
		if entry.Meta.Defined() {
			value += " " + annotatedStyle.Render("(annotated)")
		}
		if links && entry.Action != nil && entry.Action.Link != "" {
			value += " " + linkStyle.Render("→ "+entry.Action.Link)
		}
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", subjectStyle.Render(entry.Subject), value)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
}

func cardSummary(s contexts.Summary) string {
	if !s.Title.Defined() {
		return ""
	}
	line := s.Title.String()
	if s.Subtitle.Defined() {
		if s.SubtitleType != "" {
			line += fmt.Sprintf(" · %s: %s", s.SubtitleType, s.Subtitle.String())
		} else {
			line += " · " + s.Subtitle.String()
		}
	}
	return line
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringSliceVar(&showAliases, "alias", nil, "Only show these contexts (repeatable)")
	showCmd.Flags().BoolVar(&showLinks, "links", true, "Show links to traces, profiles and replays")
}
