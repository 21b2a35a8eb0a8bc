package internal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/iksnae/event-contexts/internal/contexts"
	"golang.org/x/sync/errgroup"
)

// reportNamespace seeds ids for events that arrive without one
var reportNamespace = uuid.MustParse("6f1b3c52-8a47-4e0e-9c1d-5d2f0b7e9a10")

// Normalizer turns raw events into reports
type Normalizer struct {
	Organization *contexts.Organization
	Project      *contexts.Project
	Location     *contexts.Location
	Catalog      contexts.IconCatalog
	// Workers bounds NormalizeAll concurrency; zero or less means one
	Workers int
}

// NewNormalizer creates a Normalizer with the given icon catalog
func NewNormalizer(catalog contexts.IconCatalog) *Normalizer {
	return &Normalizer{Catalog: catalog, Workers: defaultWorkers}
}

// NormalizeEvent classifies every context of an event into a Report
func (n *Normalizer) NormalizeEvent(event *contexts.Event, source string) (*Report, error) {
	if event == nil {
		return nil, fmt.Errorf("event is nil")
	}

	fc := contexts.FormatContext{
		Event:        event,
		Organization: n.Organization,
		Project:      n.Project,
		Location:     n.Location,
	}
	cards := contexts.BuildCards(fc, n.Catalog)

	entryCount := 0
	for _, card := range cards {
		entryCount += len(card.Entries)
	}

	project := event.ProjectSlug
	if project == "" && n.Project != nil {
		project = n.Project.Slug
	}

	return &Report{
		ID:       reportID(event),
		EventID:  event.Identifier(),
		Project:  project,
		Platform: event.Platform,
		Source:   source,
		Cards:    cards,
		Metadata: Metadata{
			DateCreated:  event.DateCreated,
			ContextCount: len(cards),
			EntryCount:   entryCount,
		},
	}, nil
}

// NormalizeAll builds reports for all events using a bounded worker pool.
// Report order matches event order. Events that fail are logged and skipped.
func (n *Normalizer) NormalizeAll(ctx context.Context, events []*contexts.Event, source string) ([]*Report, error) {
	results := make([]*Report, len(events))

	g, ctx := errgroup.WithContext(ctx)
	workers := n.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, event := range events {
		i, event := i, event
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := n.NormalizeEvent(event, source)
			if err != nil {
				LogWarn("Skipping event %d: %v", i, err)
				return nil
			}
			results[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	reports := make([]*Report, 0, len(results))
	seen := make(map[string]bool, len(results))
	for i, r := range results {
		if r == nil {
			continue
		}
		if seen[SafeFileName(r.ID)] {
			r.ID = distinctReportID(r.ID, events[i], seen)
			LogDebug("Event %s appears more than once, stored as %s", r.EventID, r.ID)
		}
		seen[SafeFileName(r.ID)] = true
		reports = append(reports, r)
	}
	LogDebug("Normalized %d of %d events from %s", len(reports), len(events), source)
	return reports, nil
}

// Fingerprint hashes the settings that influence built reports. Caches built
// with a different fingerprint are stale.
func (n *Normalizer) Fingerprint() string {
	tags := make([]string, 0, len(n.Catalog))
	for tag := range n.Catalog {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	payload, _ := json.Marshal(struct {
		Organization *contexts.Organization
		Project      *contexts.Project
		Location     *contexts.Location
		Icons        []string
	}{n.Organization, n.Project, n.Location, tags})

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:8])
}

// reportID uses the event's own id, or a name-based UUID of its payload so
// the same anonymous event always maps to the same cache file
func reportID(event *contexts.Event) string {
	if id := event.Identifier(); id != "" {
		return id
	}
	payload, _ := json.Marshal(event)
	return uuid.NewSHA1(reportNamespace, payload).String()
}

// distinctReportID suffixes a repeated id with a hash of the event payload,
// then a counter if that is taken too. taken holds file-safe ids since report
// ids name cache and export files.
func distinctReportID(id string, event *contexts.Event, taken map[string]bool) string {
	payload, _ := json.Marshal(event)
	base := id + "-" + uuid.NewSHA1(reportNamespace, payload).String()[:8]
	candidate := base
	for n := 2; taken[SafeFileName(candidate)]; n++ {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return candidate
}
