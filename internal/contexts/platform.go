package contexts

// platformContext describes a framework-specific context sent by a platform SDK
type platformContext struct {
	title  string
	icon   string
	format formatter
}

var platformContexts = map[string]platformContext{
	"laravel": {
		title:  "Laravel Context",
		icon:   "laravel",
		format: knownFormatter(nil),
	},
	"react": {
		title: "React",
		icon:  "react",
		format: knownFormatter(nil,
			field("version", "Version"),
		),
	},
	"spring": {
		title: "Spring",
		icon:  "spring",
		format: knownFormatter(nil,
			field("active_profiles", "Active Profiles"),
		),
	},
	"unity": {
		title: "Unity",
		icon:  "unity",
		format: knownFormatter(nil,
			field("copy_texture_support", "Copy Texture Support"),
			field("editor_version", "Editor Version"),
			field("install_mode", "Install Mode"),
			field("rendering_threading_mode", "Rendering Threading Mode"),
			field("target_frame_rate", "Target Frame Rate"),
		),
	},
}

// IsPlatformContext reports whether contextType is rendered as a platform context
func IsPlatformContext(contextType string) bool {
	_, ok := platformContexts[contextType]
	return ok
}
