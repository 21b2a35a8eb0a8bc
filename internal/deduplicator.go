package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/iksnae/event-contexts/internal/contexts"
)

// Deduplicator removes events that were stored more than once
type Deduplicator struct{}

// NewDeduplicator creates a new Deduplicator
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Deduplicate keeps the first occurrence of each event, comparing identifier
// and context payloads. Order is preserved.
func (d *Deduplicator) Deduplicate(events []*contexts.Event) []*contexts.Event {
	seen := make(map[string]bool, len(events))
	unique := make([]*contexts.Event, 0, len(events))

	for _, event := range events {
		if event == nil {
			continue
		}
		hash := d.hashEventContent(event)
		if !seen[hash] {
			seen[hash] = true
			unique = append(unique, event)
		}
	}

	return unique
}

// hashEventContent hashes the parts of an event that end up on a report
func (d *Deduplicator) hashEventContent(event *contexts.Event) string {
	h := sha256.New()
	h.Write([]byte(event.Identifier()))
	h.Write([]byte{0})

	for _, v := range []contexts.Value{event.Contexts, event.User} {
		// Value encoding cannot fail
		data, _ := json.Marshal(v)
		h.Write(data)
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
