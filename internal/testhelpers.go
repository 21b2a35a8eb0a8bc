package internal

import (
	"github.com/iksnae/event-contexts/internal/contexts"
)

const testEventContexts = `{
	"os": {"name": "Android", "version": "14", "type": "os"},
	"device": {"model": "Pixel 8", "memory_size": 8589934592, "type": "device"},
	"trace": {"trace_id": "4c79f60c11214eb38604f4ae0781bfb2", "op": "ui.load", "type": "trace"}
}`

// CreateTestEvent creates an event with a few common contexts
func CreateTestEvent(id string) *contexts.Event {
	return CreateTestEventWithContexts(id, testEventContexts)
}

// CreateTestEventWithContexts creates an event around a raw contexts document
func CreateTestEventWithContexts(id, contextsJSON string) *contexts.Event {
	return &contexts.Event{
		ID:          id,
		DateCreated: "2024-05-01T12:00:00Z",
		Platform:    "android",
		ProjectSlug: "mobile",
		Contexts:    contexts.MustParse(contextsJSON),
		User:        contexts.MustParse(`{"id":"u-1","email":"dev@example.com"}`),
	}
}

// CreateTestReport creates a report with two small cards
func CreateTestReport(id string) *Report {
	return &Report{
		ID:       id,
		EventID:  id,
		Project:  "mobile",
		Platform: "android",
		Source:   "events.json",
		Cards: []contexts.Card{
			{
				Alias: "os",
				Type:  "os",
				Title: "Operating System",
				Icon:  contexts.Icon{Kind: contexts.IconLogo, Name: "android"},
				Entries: []contexts.Entry{
					{Key: "name", Subject: "Name", Value: contexts.StringValue("Android")},
					{Key: "version", Subject: "Version", Value: contexts.StringValue("14")},
				},
				Summary: contexts.Summary{
					Title:        contexts.StringValue("Android"),
					Subtitle:     contexts.StringValue("14"),
					SubtitleType: "Version",
				},
			},
			{
				Alias: "user",
				Type:  "user",
				Title: "User",
				Icon:  contexts.Icon{Kind: contexts.IconAvatar, Name: "dev@example.com"},
				Entries: []contexts.Entry{
					{Key: "email", Subject: "Email", Value: contexts.StringValue("dev@example.com")},
				},
				Summary: contexts.Summary{Title: contexts.StringValue("dev@example.com")},
			},
		},
		Metadata: Metadata{
			DateCreated:  "2024-05-01T12:00:00Z",
			ContextCount: 2,
			EntryCount:   3,
		},
	}
}
