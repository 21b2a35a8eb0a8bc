package contexts

// formatter turns a context blob into display entries
type formatter func(data, meta Value, fc FormatContext) []Entry

// knownField describes how one well-known key of a context is displayed
type knownField struct {
	key     string
	subject string
	format  func(v Value, fc FormatContext) Value
	link    func(v Value, fc FormatContext) string
}

// formatters is the dispatch table for known context types. Platform contexts
// are checked first, see platformContexts.
var formatters = map[string]formatter{
	"app":                     formatApp,
	"device":                  formatDevice,
	"memory_info":             formatMemoryInfo,
	"Memory Info":             formatMemoryInfo,
	"browser":                 formatBrowser,
	"os":                      formatOperatingSystem,
	"runtime":                 formatRuntime,
	"user":                    formatUser,
	"gpu":                     formatGPU,
	"trace":                   formatTrace,
	"threadpool_info":         formatThreadPoolInfo,
	"ThreadPool Info":         formatThreadPoolInfo,
	"state":                   formatState,
	"profile":                 formatProfile,
	"replay":                  formatReplay,
	"cloud_resource":          formatCloudResource,
	"culture":                 formatCulture,
	"Current Culture":         formatCulture,
	"missing_instrumentation": formatMissingInstrumentation,
}

// Format produces the ordered key/value entries for a context. Unknown types
// list every key of the blob. A value that is not an object has no entries.
func Format(contextType string, value, meta Value, fc FormatContext) []Entry {
	if value.Kind() != KindObject {
		return []Entry{}
	}
	if p, ok := platformContexts[contextType]; ok {
		return p.format(value, meta, fc)
	}
	if f, ok := formatters[contextType]; ok {
		return f(value, meta, fc)
	}
	return genericEntries(value, meta)
}

// SelectKnownFields returns the known fields worth showing, in the order given.
// Numbers and booleans always show so that 0 and false are visible; other
// falsy values show only when meta explains them (e.g. they were scrubbed).
func SelectKnownFields(data Value, known []string, meta Value) []string {
	selected := make([]string, 0, len(known))
	for _, key := range known {
		v := data.Get(key)
		if v.Kind() != KindNumber && v.Kind() != KindBool && !v.Truthy() {
			if !meta.Get(key).Truthy() {
				continue
			}
		}
		selected = append(selected, key)
	}
	return selected
}

func genericEntries(data, meta Value, hidden ...string) []Entry {
	keys := ContextKeys(data, hidden...)
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, genericEntry(data, meta, key))
	}
	return entries
}

func genericEntry(data, meta Value, key string) Entry {
	return Entry{
		Key:     key,
		Subject: key,
		Value:   data.Get(key),
		Meta:    meta.Get(key).Get(""),
	}
}

// knownFormatter builds a formatter that walks the blob in source order,
// relabels the known fields and passes everything else through unchanged.
func knownFormatter(hidden []string, fields ...knownField) formatter {
	byKey := make(map[string]knownField, len(fields))
	known := make([]string, 0, len(fields))
	for _, f := range fields {
		byKey[f.key] = f
		known = append(known, f.key)
	}

	return func(data, meta Value, fc FormatContext) []Entry {
		visible := make(map[string]bool, len(known))
		for _, key := range SelectKnownFields(data, known, meta) {
			visible[key] = true
		}

		keys := ContextKeys(data, hidden...)
		entries := make([]Entry, 0, len(keys))
		for _, key := range keys {
			f, ok := byKey[key]
			if !ok {
				entries = append(entries, genericEntry(data, meta, key))
				continue
			}
			if !visible[key] {
				continue
			}
			entries = append(entries, f.entry(data.Get(key), meta, fc))
		}
		return entries
	}
}

func (f knownField) entry(raw, meta Value, fc FormatContext) Entry {
	value := raw
	if f.format != nil {
		value = f.format(raw, fc)
	}
	e := Entry{
		Key:     f.key,
		Subject: f.subject,
		Value:   value,
		Meta:    meta.Get(f.key).Get(""),
	}
	if f.link != nil {
		if link := f.link(raw, fc); link != "" {
			e.Action = &Action{Link: link}
		}
	}
	return e
}

// field is shorthand for a relabel-only known field
func field(key, subject string) knownField {
	return knownField{key: key, subject: subject}
}
