package internal

import "github.com/iksnae/event-contexts/internal/contexts"

// Report is the classified form of one event: every context rendered as a card
type Report struct {
	ID       string          `json:"id" yaml:"id"`
	EventID  string          `json:"event_id,omitempty" yaml:"event_id,omitempty"`
	Project  string          `json:"project,omitempty" yaml:"project,omitempty"`
	Platform string          `json:"platform,omitempty" yaml:"platform,omitempty"`
	Source   string          `json:"source" yaml:"source"`
	Cards    []contexts.Card `json:"cards" yaml:"cards"`
	Metadata Metadata        `json:"metadata" yaml:"metadata"`
}

// Metadata contains counts and dates about a report
type Metadata struct {
	DateCreated  string `json:"date_created,omitempty" yaml:"date_created,omitempty"`
	ContextCount int    `json:"context_count" yaml:"context_count"`
	EntryCount   int    `json:"entry_count" yaml:"entry_count"`
}

// Card returns the card with the given alias
func (r *Report) Card(alias string) (contexts.Card, bool) {
	for _, c := range r.Cards {
		if c.Alias == alias {
			return c, true
		}
	}
	return contexts.Card{}, false
}

// Aliases lists card aliases in display order
func (r *Report) Aliases() []string {
	aliases := make([]string, 0, len(r.Cards))
	for _, c := range r.Cards {
		aliases = append(aliases, c.Alias)
	}
	return aliases
}
