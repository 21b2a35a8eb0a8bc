package contexts

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

var formatApp = knownFormatter(nil,
	knownField{key: "app_start_time", subject: "Start Time", format: relativeToEvent},
	field("device_app_hash", "Device"),
	field("build_type", "Build Type"),
	field("app_identifier", "Build ID"),
	field("app_name", "Build Name"),
	field("app_version", "Version"),
	field("app_build", "App Build"),
	field("app_id", "ID"),
	knownField{key: "app_memory", subject: "Memory Usage", format: bytesBase2},
	field("in_foreground", "In Foreground"),
	field("view_names", "View Names"),
	field("permissions", "Permissions"),
	field("start_type", "Start Type"),
)

var formatDevice = knownFormatter(nil,
	field("name", "Name"),
	field("family", "Family"),
	field("model", "Model"),
	field("model_id", "Model ID"),
	field("arch", "Architecture"),
	field("archs", "Architectures"),
	field("cpu_description", "CPU Description"),
	knownField{key: "battery_level", subject: "Battery Level", format: percent},
	field("battery_status", "Battery Status"),
	field("battery_temperature", "Battery Temperature (°C)"),
	field("charging", "Charging"),
	field("orientation", "Orientation"),
	field("manufacturer", "Manufacturer"),
	field("brand", "Brand"),
	field("screen_resolution", "Screen Resolution"),
	field("screen_height_pixels", "Screen Height Pixels"),
	field("screen_width_pixels", "Screen Width Pixels"),
	field("screen_density", "Screen Density"),
	field("screen_dpi", "Screen DPI"),
	knownField{key: "memory_size", subject: "Memory Size", format: bytesBase2},
	knownField{key: "free_memory", subject: "Free Memory", format: bytesBase2},
	knownField{key: "usable_memory", subject: "Usable Memory", format: bytesBase2},
	field("low_memory", "Low Memory"),
	knownField{key: "storage_size", subject: "Storage Size", format: bytesBase2},
	knownField{key: "free_storage", subject: "Free Storage", format: bytesBase2},
	knownField{key: "external_storage_size", subject: "External Storage Size", format: bytesBase2},
	knownField{key: "external_free_storage", subject: "External Free Storage", format: bytesBase2},
	field("simulator", "Simulator"),
	knownField{key: "boot_time", subject: "Boot Time", format: relativeToEvent},
	field("timezone", "Timezone"),
	field("device_type", "Device Type"),
	field("connection_type", "Connection Type"),
	field("online", "Online"),
	field("processor_count", "Processor Count"),
	knownField{key: "processor_frequency", subject: "Processor Frequency", format: megahertz},
	field("device_unique_identifier", "Device UID"),
	field("locale", "Locale"),
	field("language", "Language"),
	field("thermal_state", "Thermal State"),
	field("id", "ID"),
)

var formatMemoryInfo = knownFormatter(nil,
	knownField{key: "allocated_bytes", subject: "Allocated Bytes", format: bytesBase2},
	knownField{key: "fragmented_bytes", subject: "Fragmented Bytes", format: bytesBase2},
	knownField{key: "heap_size_bytes", subject: "Heap Size Bytes", format: bytesBase2},
	knownField{key: "high_memory_load_threshold_bytes", subject: "High Memory Load Threshold Bytes", format: bytesBase2},
	knownField{key: "total_available_memory_bytes", subject: "Total Available Memory Bytes", format: bytesBase2},
	knownField{key: "memory_load_bytes", subject: "Memory Load Bytes", format: bytesBase2},
	knownField{key: "total_committed_bytes", subject: "Total Committed Bytes", format: bytesBase2},
	knownField{key: "promoted_bytes", subject: "Promoted Bytes", format: bytesBase2},
	field("pinned_objects_count", "Pinned Objects Count"),
	field("pause_time_percentage", "Pause Time Percentage"),
	field("index", "Index"),
	field("finalization_pending_count", "Finalization Pending Count"),
	field("compacted", "Compacted"),
	field("concurrent", "Concurrent"),
	field("pause_durations", "Pause Durations"),
)

var formatThreadPoolInfo = knownFormatter(nil,
	field("min_worker_threads", "Min Worker Threads"),
	field("min_completion_port_threads", "Min Completion Port Threads"),
	field("max_worker_threads", "Max Worker Threads"),
	field("max_completion_port_threads", "Max Completion Port Threads"),
	field("available_worker_threads", "Available Worker Threads"),
	field("available_completion_port_threads", "Available Completion Port Threads"),
)

var formatBrowser = knownFormatter(nil,
	field("name", "Name"),
	field("version", "Version"),
)

var formatOperatingSystem = knownFormatter(nil,
	field("name", "Name"),
	field("version", "Version"),
	field("build", "Build"),
	field("kernel_version", "Kernel Version"),
	field("rooted", "Rooted"),
	field("theme", "Theme"),
	field("raw_description", "Raw Description"),
	field("distribution_name", "Distro"),
	field("distribution_version", "Distro Version"),
	field("distribution_pretty_name", "Distro Name"),
)

var formatRuntime = knownFormatter(nil,
	field("name", "Name"),
	field("version", "Version"),
	field("build", "Build"),
	field("raw_description", "Raw Description"),
)

var formatUser = knownFormatter(nil,
	field("id", "ID"),
	field("email", "Email"),
	field("username", "Username"),
	field("ip_address", "IP Address"),
	field("name", "Name"),
	knownField{key: "geo", subject: "Geography", format: geography},
)

var formatGPU = knownFormatter(nil,
	field("name", "Name"),
	field("id", "GPU ID"),
	field("vendor_id", "Vendor ID"),
	field("vendor_name", "Vendor Name"),
	knownField{key: "memory_size", subject: "Memory", format: megabytesBase2},
	field("api_type", "API Type"),
	field("multi_threaded_rendering", "Multi-Threaded Rendering"),
	field("version", "Version"),
	field("npot_support", "NPOT Support"),
	field("max_texture_size", "Largest Texture Size"),
	field("graphics_shader_level", "Approx. Shader Capability"),
	field("supports_draw_call_instancing", "Supports Draw Call Instancing"),
	field("supports_ray_tracing", "Supports Ray Tracing"),
	field("supports_compute_shaders", "Supports Compute Shaders"),
	field("supports_geometry_shaders", "Supports Geometry Shaders"),
)

var formatTrace = knownFormatter(nil,
	knownField{key: "trace_id", subject: "Trace ID", link: traceLink},
	field("span_id", "Span ID"),
	field("parent_span_id", "Parent Span ID"),
	field("op", "Operation Name"),
	field("status", "Status"),
	field("exclusive_time", "Exclusive Time (ms)"),
	field("client_sample_rate", "Client Sample Rate"),
	field("dynamic_sampling_context", "Dynamic Sampling Context"),
	field("origin", "Origin"),
	field("data", "Data"),
)

var formatProfile = knownFormatter(nil,
	knownField{key: "profile_id", subject: "Profile ID", link: profileLink},
	knownField{key: "profiler_id", subject: "Profiler ID", link: continuousProfileLink},
)

var formatReplay = knownFormatter(nil,
	knownField{key: "replay_id", subject: "Replay ID", link: replayLink},
)

var formatCloudResource = knownFormatter(nil,
	knownField{key: "cloud.provider", subject: "Cloud Provider", format: lookup(cloudProviders)},
	field("cloud.account.id", "Account ID"),
	field("cloud.region", "Region"),
	field("cloud.availability_zone", "Availability Zone"),
	knownField{key: "cloud.platform", subject: "Platform", format: lookup(cloudPlatforms)},
	field("host.id", "Host ID"),
	field("host.type", "Host Type"),
)

var formatCulture = knownFormatter(nil,
	field("calendar", "Calendar"),
	field("display_name", "Display Name"),
	field("locale", "Locale"),
	field("is_24_hour_format", "Uses 24h Format"),
	field("timezone", "Timezone"),
)

var formatMissingInstrumentation = knownFormatter(nil,
	field("package", "Package w/o Instrumentation"),
	field("javascript.is_cjs", "From CommonJS Module?"),
)

// formatState shows the store snapshot under a subject naming the store type
func formatState(data, meta Value, _ FormatContext) []Entry {
	keys := ContextKeys(data)
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		if key != "state" {
			entries = append(entries, genericEntry(data, meta, key))
			continue
		}

		state := data.Get("state")
		subject := "State"
		if t, ok := state.Get("type").Str(); ok && t != "" {
			first, size := utf8.DecodeRuneInString(t)
			subject = fmt.Sprintf("State (%s)", string(unicode.ToUpper(first))+t[size:])
		}
		value := state
		if state.Has("value") {
			value = state.Get("value")
		}
		entries = append(entries, Entry{
			Key:     "state",
			Subject: subject,
			Value:   value,
			Meta:    meta.Get("state").Get("value").Get(""),
		})
	}
	return entries
}

var cloudProviders = map[string]string{
	"alibaba_cloud": "Alibaba Cloud",
	"aws":           "Amazon Web Services",
	"azure":         "Microsoft Azure",
	"gcp":           "Google Cloud Platform",
	"ibm_cloud":     "IBM Cloud",
	"tencent_cloud": "Tencent Cloud",
}

var cloudPlatforms = map[string]string{
	"alibaba_cloud_ecs":         "Alibaba Cloud Elastic Compute Service",
	"alibaba_cloud_fc":          "Alibaba Cloud Function Compute",
	"aws_ec2":                   "AWS Elastic Compute Cloud",
	"aws_ecs":                   "AWS Elastic Container Service",
	"aws_eks":                   "AWS Elastic Kubernetes Service",
	"aws_lambda":                "AWS Lambda",
	"aws_elastic_beanstalk":     "AWS Elastic Beanstalk",
	"azure_vm":                  "Azure Virtual Machines",
	"azure_container_instances": "Azure Container Instances",
	"azure_aks":                 "Azure Kubernetes Service",
	"azure_functions":           "Azure Functions",
	"azure_app_service":         "Azure App Service",
	"gcp_compute_engine":        "Google Cloud Compute Engine",
	"gcp_cloud_run":             "Google Cloud Run",
	"gcp_kubernetes_engine":     "Google Kubernetes Engine",
	"gcp_cloud_functions":       "Google Cloud Functions",
	"gcp_app_engine":            "Google App Engine",
	"tencent_cloud_cvm":         "Tencent Cloud Cloud Virtual Machine",
	"tencent_cloud_eks":         "Tencent Cloud Elastic Kubernetes Service",
	"tencent_cloud_scf":         "Tencent Cloud Serverless Cloud Function",
}

func lookup(names map[string]string) func(Value, FormatContext) Value {
	return func(v Value, _ FormatContext) Value {
		if s, ok := v.Str(); ok {
			if name, ok := names[s]; ok {
				return StringValue(name)
			}
		}
		return v
	}
}

func bytesBase2(v Value, _ FormatContext) Value {
	f, ok := v.Float()
	if !ok || f < 0 {
		return v
	}
	return StringValue(humanize.IBytes(uint64(f)))
}

func megabytesBase2(v Value, _ FormatContext) Value {
	f, ok := v.Float()
	if !ok || f < 0 {
		return v
	}
	return StringValue(humanize.IBytes(uint64(f * 1024 * 1024)))
}

func percent(v Value, _ FormatContext) Value {
	f, ok := v.Float()
	if !ok {
		return v
	}
	return StringValue(strconv.FormatFloat(f, 'f', -1, 64) + "%")
}

func megahertz(v Value, _ FormatContext) Value {
	f, ok := v.Float()
	if !ok {
		return v
	}
	return StringValue(strconv.FormatFloat(f, 'f', -1, 64) + " MHz")
}

// relativeToEvent appends how long before the event a timestamp was taken
func relativeToEvent(v Value, fc FormatContext) Value {
	raw, ok := v.Str()
	if !ok {
		return v
	}
	eventTime, ok := fc.Event.Timestamp()
	if !ok {
		return v
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return v
	}
	return StringValue(fmt.Sprintf("%s (%s)", raw, humanize.RelTime(t, eventTime, "before this event", "after this event")))
}

func geography(v Value, _ FormatContext) Value {
	if v.Kind() != KindObject {
		return v
	}
	var parts []string
	for _, key := range []string{"city", "region", "country_code"} {
		if s, ok := v.Get(key).Str(); ok && s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return v
	}
	return StringValue(strings.Join(parts, ", "))
}

func traceLink(v Value, fc FormatContext) string {
	traceID, ok := v.Str()
	if !ok || traceID == "" || fc.Organization == nil || fc.Organization.Slug == "" {
		return ""
	}

	query := url.Values{}
	if fc.Location != nil {
		for _, key := range []string{"environment", "project", "statsPeriod", "start", "end"} {
			if val, ok := fc.Location.Query[key]; ok && val != "" {
				query.Set(key, val)
			}
		}
	}
	if t, ok := fc.Event.Timestamp(); ok {
		query.Set("timestamp", strconv.FormatInt(t.Unix(), 10))
	}
	if id := fc.Event.Identifier(); id != "" {
		query.Set("eventId", id)
	}

	link := fmt.Sprintf("/organizations/%s/performance/trace/%s/", fc.Organization.Slug, traceID)
	if encoded := query.Encode(); encoded != "" {
		link += "?" + encoded
	}
	return link
}

func profileLink(v Value, fc FormatContext) string {
	profileID, ok := v.Str()
	if !ok || profileID == "" || fc.Project == nil || !fc.Organization.HasFeature("profiling") {
		return ""
	}
	return fmt.Sprintf("/organizations/%s/profiling/profile/%s/%s/flamegraph/",
		fc.Organization.Slug, fc.Project.Slug, profileID)
}

func continuousProfileLink(v Value, fc FormatContext) string {
	profilerID, ok := v.Str()
	if !ok || profilerID == "" || fc.Project == nil || !fc.Organization.HasFeature("profiling") {
		return ""
	}
	query := url.Values{}
	query.Set("profilerId", profilerID)
	if id := fc.Event.Identifier(); id != "" {
		query.Set("eventId", id)
	}
	return fmt.Sprintf("/organizations/%s/profiling/profile/%s/flamegraph/?%s",
		fc.Organization.Slug, fc.Project.Slug, query.Encode())
}

func replayLink(v Value, fc FormatContext) string {
	replayID, ok := v.Str()
	if !ok || replayID == "" || fc.Organization == nil || fc.Organization.Slug == "" {
		return ""
	}
	return fmt.Sprintf("/organizations/%s/replays/%s/", fc.Organization.Slug, replayID)
}
