package contexts

import (
	"regexp"
	"strings"
)

var (
	firstDigit   = regexp.MustCompile(`\d`)
	nonTagChars  = regexp.MustCompile(`[^a-z0-9\-]+`)
	vendorPrefix = []struct {
		prefixes []string
		tag      string
	}{
		// Fire TV model ids change per generation: AFTT, AFTN, AFTS, AFTA, AFTVA...
		{[]string{"aft"}, "amazon"},
		{[]string{"sm-", "st-"}, "samsung"},
		{[]string{"moto"}, "motorola"},
		{[]string{"pixel"}, "google"},
		{[]string{"vercel"}, "vercel"},
	}
)

// ClassifyVendor turns a device, OS, browser or runtime name into an icon tag.
// An empty name yields an empty tag.
func ClassifyVendor(name, version string) string {
	if name == "" {
		return ""
	}

	lower := strings.ToLower(name)
	for _, rule := range vendorPrefix {
		for _, p := range rule.prefixes {
			if strings.HasPrefix(lower, p) {
				return rule.tag
			}
		}
	}

	head := name
	if loc := firstDigit.FindStringIndex(name); loc != nil {
		head = name[:loc[0]]
	}
	tag := nonTagChars.ReplaceAllString(strings.ToLower(head), "-")
	tag = strings.TrimRight(tag, "-")
	tag = strings.TrimLeft(tag, "-")

	if tag == "edge" && version != "" {
		// Compared as strings, not numbers
		major := strings.SplitN(version, ".", 2)[0]
		if major >= "12" && major <= "18" {
			return "legacy-edge"
		}
		return "edge"
	}

	if strings.HasSuffix(tag, "-mobile") {
		return strings.SplitN(tag, "-", 2)[0]
	}

	return tag
}

// IconCatalog is the set of tags that have a logo asset
type IconCatalog map[string]struct{}

// Has reports whether tag has an asset
func (c IconCatalog) Has(tag string) bool {
	_, ok := c[tag]
	return ok
}

// Add registers more asset tags
func (c IconCatalog) Add(tags ...string) {
	for _, t := range tags {
		c[t] = struct{}{}
	}
}

var defaultLogos = []string{
	"amazon", "android", "apple", "arm", "chrome", "chromium", "crystal", "dotnet",
	"edge", "electron", "firefox", "google", "graalvm", "ie", "ios", "ipados", "java",
	"legacy-edge", "linux", "mac-os-x", "macos", "motorola", "net-core", "net-framework",
	"netcore", "node", "nvidia", "opera", "php", "python", "react", "ruby", "safari",
	"samsung", "samsung-internet", "tvos", "ubuntu", "unity", "vercel", "watchos",
	"windows", "go", "rust", "swift", "amd", "intel", "qualcomm", "huawei", "xiaomi",
	"oneplus", "debian", "centos", "fedora", "alpine",
}

// DefaultIconCatalog returns a catalog with the bundled logo tags
func DefaultIconCatalog() IconCatalog {
	c := make(IconCatalog, len(defaultLogos))
	c.Add(defaultLogos...)
	return c
}

// ResolveIcon picks the icon for a context. Tags missing from the catalog
// produce no icon rather than an error.
func ResolveIcon(alias, typ string, value Value, catalog IconCatalog) Icon {
	contextType := ResolveType(alias, typ)
	if p, ok := platformContexts[contextType]; ok {
		return Icon{Kind: IconPlatform, Name: p.icon}
	}

	var tag string
	switch contextType {
	case "device":
		tag = ClassifyVendor(stringField(value, "model"), "")
	case "os", "client_os":
		tag = ClassifyVendor(stringField(value, "name"), "")
	case "runtime", "browser":
		tag = ClassifyVendor(stringField(value, "name"), stringField(value, "version"))
	case "gpu":
		name := value.Get("vendor_name")
		if !name.Truthy() {
			name = value.Get("name")
		}
		tag = ClassifyVendor(scalarString(name), "")
	case "user":
		if id := userIdentifier(value); id != "" {
			return Icon{Kind: IconAvatar, Name: id}
		}
		return Icon{}
	}

	if tag == "" || catalog == nil || !catalog.Has(tag) {
		return Icon{}
	}
	return Icon{Kind: IconLogo, Name: tag}
}

// userIdentifier picks the label an avatar is generated from
func userIdentifier(value Value) string {
	for _, key := range []string{"name", "username", "email", "id", "ip_address"} {
		if v := value.Get(key); v.Truthy() && v.Kind() != KindObject && v.Kind() != KindArray {
			return v.String()
		}
	}
	return ""
}

// stringField returns the field only when it holds a string
func stringField(value Value, key string) string {
	s, _ := value.Get(key).Str()
	return s
}

// scalarString stringifies strings and numbers; anything else is empty
func scalarString(v Value) string {
	switch v.Kind() {
	case KindString, KindNumber:
		return v.String()
	default:
		return ""
	}
}
