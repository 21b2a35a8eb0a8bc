package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/event-contexts/internal"
	"github.com/iksnae/event-contexts/internal/contexts"
)

// MarkdownExporter renders each card as a heading, a summary line and a
// key/value table
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(report *internal.Report, w io.Writer) error {
	id := report.EventID
	if id == "" {
		id = report.ID
	}
	_, _ = fmt.Fprintf(w, "# Event %s\n\n", id)

	if report.Project != "" {
		_, _ = fmt.Fprintf(w, "**Project:** %s  \n", report.Project)
	}
	if report.Platform != "" {
		_, _ = fmt.Fprintf(w, "**Platform:** %s  \n", report.Platform)
	}
	if report.Metadata.DateCreated != "" {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", report.Metadata.DateCreated)
	}
	_, _ = fmt.Fprintf(w, "**Source:** %s  \n", report.Source)
	_, _ = fmt.Fprintf(w, "**Contexts:** %d\n\n", len(report.Cards))

	for _, card := range report.Cards {
		_, _ = fmt.Fprintf(w, "---\n\n")
		writeCard(w, card)
	}

	return nil
}

func writeCard(w io.Writer, card contexts.Card) {
	heading := card.Title
	if card.Alias != card.Type && card.Alias != card.Title {
		heading = fmt.Sprintf("%s (`%s`)", card.Title, card.Alias)
	}
	_, _ = fmt.Fprintf(w, "## %s\n\n", heading)

	if line := summaryLine(card.Summary); line != "" {
		_, _ = fmt.Fprintf(w, "_%s_\n\n", line)
	}

	if len(card.Entries) == 0 {
		_, _ = fmt.Fprintf(w, "_No data_\n\n")
		return
	}

	_, _ = fmt.Fprintf(w, "| Key | Value |\n|---|---|\n")
	for _, entry := range card.Entries {
		value := escapeCell(entry.Value.String())
		if entry.Action != nil && entry.Action.Link != "" {
			value = fmt.Sprintf("[%s](%s)", value, entry.Action.Link)
		}
		if entry.Meta.Defined() {
			value += " _(annotated)_"
		}
		_, _ = fmt.Fprintf(w, "| %s | %s |\n", escapeCell(entry.Subject), value)
	}
	_, _ = fmt.Fprintln(w)
}

func summaryLine(s contexts.Summary) string {
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
	return escapeCell(line)
}

// escapeCell keeps values from breaking the table layout
func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "|", "\\|")
	text = strings.ReplaceAll(text, "\r\n", "<br>")
	return strings.ReplaceAll(text, "\n", "<br>")
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
