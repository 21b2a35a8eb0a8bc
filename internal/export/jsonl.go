package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/event-contexts/internal"
	"github.com/iksnae/event-contexts/internal/contexts"
)

// JSONLExporter writes one line per entry, flattening the cards
type JSONLExporter struct{}

// jsonlRecord is one exported row
type jsonlRecord struct {
	Report  string          `json:"report"`
	Alias   string          `json:"alias"`
	Type    string          `json:"type"`
	Key     string          `json:"key"`
	Subject string          `json:"subject"`
	Value   contexts.Value  `json:"value"`
	Meta    *contexts.Value `json:"meta,omitempty"`
	Link    string          `json:"link,omitempty"`
}

func (e *JSONLExporter) Export(report *internal.Report, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, card := range report.Cards {
		for _, entry := range card.Entries {
			rec := jsonlRecord{
				Report:  report.ID,
				Alias:   card.Alias,
				Type:    card.Type,
				Key:     entry.Key,
				Subject: entry.Subject,
				Value:   entry.Value,
			}
			if entry.Meta.Defined() {
				meta := entry.Meta
				rec.Meta = &meta
			}
			if entry.Action != nil {
				rec.Link = entry.Action.Link
			}

			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("failed to encode entry %s.%s: %w", card.Alias, entry.Key, err)
			}
		}
	}

	return nil
}

func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
