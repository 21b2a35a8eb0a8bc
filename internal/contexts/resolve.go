// Package contexts classifies and formats the context blobs attached to
// monitoring events: canonical type, display title, icon, key/value entries
// and a one-line summary. Every function here is total and pure.
package contexts

// ResolveType returns the dispatch key for a context. The blob's own type wins
// unless it is absent, empty or "default", in which case the alias is used.
func ResolveType(alias, typ string) string {
	if typ == "" || typ == "default" {
		return alias
	}
	return typ
}

// contextTitles maps canonical types to display labels
var contextTitles = map[string]string{
	"app":                     "App",
	"device":                  "Device",
	"browser":                 "Browser",
	"response":                "Response",
	"feedback":                "Feedback",
	"os":                      "Operating System",
	"user":                    "User",
	"gpu":                     "Graphics Processing Unit",
	"runtime":                 "Runtime",
	"trace":                   "Trace Details",
	"otel":                    "OpenTelemetry",
	"cloud_resource":          "Cloud Resource",
	"culture":                 "Culture",
	"Current Culture":         "Culture",
	"missing_instrumentation": "Missing OTEL Instrumentation",
	"unity":                   "Unity",
	"memory_info":             "Memory Info",
	"Memory Info":             "Memory Info",
	"threadpool_info":         "Thread Pool Info",
	"ThreadPool Info":         "Thread Pool Info",
	"state":                   "Application State",
	"laravel":                 "Laravel Context",
	"profile":                 "Profile",
	"replay":                  "Replay",
	"ota_updates":             "OTA Updates",
	"react_native_context":    "React Native",
}

// ResolveTitle returns the heading for a context. A scalar "title" field in the
// blob overrides everything else.
func ResolveTitle(alias, typ string, value Value) string {
	if title := value.Get("title"); title.Defined() && title.Kind() != KindObject {
		return title.String()
	}

	contextType := ResolveType(alias, typ)
	if p, ok := platformContexts[contextType]; ok {
		return p.title
	}

	// Two "Operating System" cards would be confusing
	if alias == "client_os" {
		return "Client Operating System"
	}

	if title, ok := contextTitles[contextType]; ok {
		return title
	}
	return contextType
}

// legacyMetaKeys lists the older names some SDKs store meta annotations under
var legacyMetaKeys = map[string]string{
	"memory_info":     "Memory Info",
	"Memory Info":     "Memory Info",
	"threadpool_info": "ThreadPool Info",
	"ThreadPool Info": "ThreadPool Info",
}

// ResolveMeta finds the meta annotations for a context type. The user context
// keeps its annotations at the top level of the event meta.
func ResolveMeta(event *Event, contextType string) Value {
	if event == nil {
		return EmptyObject()
	}

	meta := event.Meta.Get("contexts").Get(contextType)

	if contextType == "user" {
		if user := event.Meta.Get("user"); user.Defined() {
			return user
		}
	}

	if legacy, ok := legacyMetaKeys[contextType]; ok && meta.Len() == 0 {
		if m := event.Meta.Get("contexts").Get(legacy); m.Defined() {
			return m
		}
	}

	if !meta.Defined() {
		return EmptyObject()
	}
	return meta
}

// ContextKeys lists the displayable keys of a blob in source order. The "type"
// key and any hidden keys are omitted.
func ContextKeys(data Value, hidden ...string) []string {
	hiddenSet := make(map[string]struct{}, len(hidden))
	for _, h := range hidden {
		hiddenSet[h] = struct{}{}
	}

	keys := make([]string, 0, data.Len())
	for _, key := range data.Keys() {
		if key == "type" {
			continue
		}
		if _, ok := hiddenSet[key]; ok {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
