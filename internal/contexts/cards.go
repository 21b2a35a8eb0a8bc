package contexts

// OrderedItems lists the contexts of an event in display order: response,
// feedback and the event user first, then the rest in source order. Contexts
// with nothing but a "type" key are skipped.
func OrderedItems(event *Event) []Item {
	if event == nil {
		return nil
	}

	type candidate struct {
		alias string
		value Value
	}
	candidates := []candidate{
		{"response", event.Contexts.Get("response")},
		{"feedback", event.Contexts.Get("feedback")},
		{"user", event.User},
	}
	for _, alias := range event.Contexts.Keys() {
		if alias == "response" || alias == "feedback" {
			continue
		}
		candidates = append(candidates, candidate{alias, event.Contexts.Get(alias)})
	}

	items := make([]Item, 0, len(candidates))
	for _, c := range candidates {
		if len(ContextKeys(c.value)) == 0 {
			continue
		}
		typ, _ := c.value.Get("type").Str()
		items = append(items, Item{Alias: c.alias, Type: typ, Value: c.value})
	}
	return items
}

// BuildCard classifies one context item
func BuildCard(item Item, fc FormatContext, catalog IconCatalog) Card {
	contextType := ResolveType(item.Alias, item.Type)
	meta := ResolveMeta(fc.Event, contextType)

	return Card{
		Alias:   item.Alias,
		Type:    contextType,
		Title:   ResolveTitle(item.Alias, item.Type, item.Value),
		Icon:    ResolveIcon(item.Alias, item.Type, item.Value, catalog),
		Entries: Format(contextType, item.Value, meta, fc),
		Summary: Summarize(contextType, item.Value),
	}
}

// BuildCards classifies every context of fc.Event
func BuildCards(fc FormatContext, catalog IconCatalog) []Card {
	items := OrderedItems(fc.Event)
	cards := make([]Card, 0, len(items))
	for _, item := range items {
		cards = append(cards, BuildCard(item, fc, catalog))
	}
	return cards
}
