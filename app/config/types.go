package config

// PlatformProfile describes one distribution target: its display name,
// social snippet constraints, and which image purposes belong to it.
type PlatformProfile struct {
	Name          string   `yaml:"name"`
	DisplayName   string   `yaml:"display_name"`
	SnippetLimit  int      `yaml:"snippet_limit"` // characters, 0 = unlimited
	AttachImages  bool     `yaml:"attach_images"`
	ImagePurposes []string `yaml:"image_purposes"`
	Social        bool     `yaml:"social"`
}
