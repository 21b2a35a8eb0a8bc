package contexts

import "time"

// Event is the subset of a monitoring event the context dispatcher reads
type Event struct {
	ID           string `json:"id,omitempty"`
	EventID      string `json:"eventID,omitempty"`
	DateCreated  string `json:"dateCreated,omitempty"`
	DateReceived string `json:"dateReceived,omitempty"`
	Platform     string `json:"platform,omitempty"`
	ProjectSlug  string `json:"projectSlug,omitempty"`
	Contexts     Value  `json:"contexts"`
	User         Value  `json:"user"`
	Meta         Value  `json:"_meta"`
}

// Identifier returns the event id, preferring the short id over eventID
func (e *Event) Identifier() string {
	if e == nil {
		return ""
	}
	if e.ID != "" {
		return e.ID
	}
	return e.EventID
}

// Timestamp returns dateCreated, falling back to dateReceived
func (e *Event) Timestamp() (time.Time, bool) {
	if e == nil {
		return time.Time{}, false
	}
	for _, raw := range []string{e.DateCreated, e.DateReceived} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Organization owning the event. Features gate some cross-links.
type Organization struct {
	Slug     string   `json:"slug" yaml:"slug"`
	Features []string `json:"features,omitempty" yaml:"features,omitempty"`
}

// HasFeature reports whether the organization has the named feature flag
func (o *Organization) HasFeature(name string) bool {
	if o == nil {
		return false
	}
	for _, f := range o.Features {
		if f == name {
			return true
		}
	}
	return false
}

// Project the event belongs to
type Project struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Slug string `json:"slug" yaml:"slug"`
}

// Location is the current page location; its query is carried over into links
type Location struct {
	Pathname string            `json:"pathname,omitempty" yaml:"pathname,omitempty"`
	Query    map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
}

// FormatContext carries the surroundings some formatters need
type FormatContext struct {
	Event        *Event
	Organization *Organization
	Project      *Project
	Location     *Location
}

// Action attached to an entry, e.g. a link to the trace view
type Action struct {
	Link string `json:"link" yaml:"link"`
}

// Entry is one row of a key/value table
type Entry struct {
	Key     string  `json:"key" yaml:"key"`
	Subject string  `json:"subject" yaml:"subject"`
	Value   Value   `json:"value" yaml:"value"`
	Meta    Value   `json:"meta" yaml:"meta,omitempty"`
	Action  *Action `json:"action,omitempty" yaml:"action,omitempty"`
}

// Summary is the condensed one-line form of a context
type Summary struct {
	Title        Value  `json:"title" yaml:"title,omitempty"`
	Subtitle     Value  `json:"subtitle" yaml:"subtitle,omitempty"`
	SubtitleType string `json:"subtitleType,omitempty" yaml:"subtitle_type,omitempty"`
}

// IconKind says what sort of image represents a context
type IconKind string

const (
	IconNone     IconKind = ""
	IconLogo     IconKind = "logo"
	IconPlatform IconKind = "platform"
	IconAvatar   IconKind = "avatar"
)

// Icon names the image shown next to a context title
type Icon struct {
	Kind IconKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Name string   `json:"name,omitempty" yaml:"name,omitempty"`
}

// IsZero reports whether no icon should be rendered
func (i Icon) IsZero() bool { return i.Kind == IconNone }

// Item is one context attached to an event, before classification
type Item struct {
	Alias string
	Type  string
	Value Value
}

// Card is a fully classified context
type Card struct {
	Alias   string  `json:"alias" yaml:"alias"`
	Type    string  `json:"type" yaml:"type"`
	Title   string  `json:"title" yaml:"title"`
	Icon    Icon    `json:"icon" yaml:"icon,omitempty"`
	Entries []Entry `json:"entries" yaml:"entries"`
	Summary Summary `json:"summary" yaml:"summary"`
}
