package contexts

import (
	"regexp"
	"strings"
)

var (
	rubyVersion   = regexp.MustCompile(`^ruby\s+(.*?)(?:\s+\(|$)`)
	darwinVersion = regexp.MustCompile(`Darwin Kernel Version (\d+\.\d+\.\d+).+RELEASE_(.+)`)
)

// longVersionThreshold is the length above which version banners are shortened
const longVersionThreshold = 25

// Summarize derives the compact title/subtitle form of a context. Types
// without a rule get an empty summary.
func Summarize(typ string, data Value) Summary {
	var s Summary

	switch typ {
	case "device":
		title := StringValue(DeviceName(stringField(data, "model")))
		if !title.Truthy() {
			title = data.Get("name")
		}
		s.Title = title
		if arch := data.Get("arch"); arch.Defined() {
			s.Subtitle, s.SubtitleType = arch, "Architecture"
		} else if model := data.Get("model"); model.Defined() {
			s.Subtitle, s.SubtitleType = model, "Model"
		}

	case "gpu":
		s.Title = data.Get("name")
		if vendor := data.Get("vendor_name"); vendor.Defined() {
			s.Subtitle, s.SubtitleType = vendor, "Vendor"
		}

	case "os", "client_os":
		s.Title = data.Get("name")
		if version, ok := data.Get("version").Str(); ok {
			s.Subtitle, s.SubtitleType = StringValue(shortOperatingSystemVersion(version)), "Version"
		} else if kernel := data.Get("kernel_version"); kernel.Defined() {
			s.Subtitle, s.SubtitleType = kernel, "Kernel"
		}

	case "user":
		if email := data.Get("email"); email.Defined() {
			s.Title = email
		}
		if ip := data.Get("ip_address"); ip.Defined() && !s.Title.Truthy() {
			s.Title = ip
		}
		if id := data.Get("id"); id.Defined() {
			if !s.Title.Truthy() {
				s.Title = id
			}
			s.Subtitle, s.SubtitleType = id, "ID"
		}
		if username := data.Get("username"); username.Defined() {
			if !s.Title.Truthy() {
				s.Title = username
			}
			s.Subtitle, s.SubtitleType = username, "Username"
		}
		if s.Title.Equal(s.Subtitle) {
			return Summary{Title: s.Title}
		}

	case "runtime":
		s.Title = data.Get("name")
		if version, ok := data.Get("version").Str(); ok {
			s.Subtitle, s.SubtitleType = StringValue(shortRuntimeVersion(version)), "Version"
		}

	case "browser":
		s.Title = data.Get("name")
		if version := data.Get("version"); version.Defined() {
			s.Subtitle, s.SubtitleType = version, "Version"
		}
	}

	return s
}

// shortRuntimeVersion trims Ruby interpreter banners such as
// "ruby 3.2.6 (2024-10-30 revision 63aeb018eb) [arm64-darwin23]" to "3.2.6"
func shortRuntimeVersion(version string) string {
	if strings.HasPrefix(version, "ruby") && len(version) > longVersionThreshold {
		if m := rubyVersion.FindStringSubmatch(version); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return version
}

// shortOperatingSystemVersion trims Darwin kernel banners to
// "<version> (RELEASE_<arch>)"
func shortOperatingSystemVersion(version string) string {
	if strings.HasPrefix(version, "Darwin Kernel Version") && len(version) > longVersionThreshold {
		if m := darwinVersion.FindStringSubmatch(version); m != nil {
			return m[1] + " (RELEASE_" + m[2] + ")"
		}
	}
	return version
}
