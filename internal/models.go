package internal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/event-contexts/internal/contexts"
)

// maxLineSize bounds a single JSONL record; events with large breadcrumbs exceed bufio's default
const maxLineSize = 16 * 1024 * 1024

// ParseEvent decodes a single event payload
func ParseEvent(data []byte, source, key string) (*contexts.Event, error) {
	var event contexts.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, &ParseError{Source: source, Key: key, Err: err}
	}
	if event.Contexts.Defined() && event.Contexts.Kind() != contexts.KindObject {
		return nil, &ParseError{Source: source, Key: key, Err: fmt.Errorf("contexts is a %s, want object", event.Contexts.Kind())}
	}
	return &event, nil
}

// ParseEvents decodes a JSON document holding either one event or an array of events
func ParseEvents(data []byte, source string) ([]*contexts.Event, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &ParseError{Source: source, Key: "document", Err: io.ErrUnexpectedEOF}
	}

	if trimmed[0] != '[' {
		event, err := ParseEvent(trimmed, source, "document")
		if err != nil {
			return nil, err
		}
		return []*contexts.Event{event}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &ParseError{Source: source, Key: "document", Err: err}
	}

	events := make([]*contexts.Event, 0, len(raw))
	for i, item := range raw {
		event, err := ParseEvent(item, source, fmt.Sprintf("index %d", i))
		if err != nil {
			LogWarn("Skipping event: %v", err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// ParseEventsJSONL decodes one event per line. Blank lines are ignored and
// malformed lines are logged and skipped.
func ParseEventsJSONL(r io.Reader, source string) ([]*contexts.Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var events []*contexts.Event
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		event, err := ParseEvent(text, source, fmt.Sprintf("line %d", line))
		if err != nil {
			LogWarn("Skipping event: %v", err)
			continue
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, &StorageError{Path: source, Op: "read", Err: err}
	}
	return events, nil
}
