// Package config loads platform profiles from YAML files, with compiled-in
// defaults for the platforms the service knows out of the box.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of platform profiles
type Loader struct {
	platformsDir string
}

// NewLoader creates a new platform profile loader. An empty dir means only
// the built-in defaults are available.
func NewLoader(platformsDir string) *Loader {
	return &Loader{platformsDir: platformsDir}
}

// defaults covers the platforms supported without any configuration files.
func defaults() map[string]*PlatformProfile {
	return map[string]*PlatformProfile{
		"twitter": {
			Name:          "twitter",
			DisplayName:   "X (Twitter)",
			SnippetLimit:  280,
			AttachImages:  true,
			ImagePurposes: []string{"social"},
			Social:        true,
		},
		"linkedin": {
			Name:          "linkedin",
			DisplayName:   "LinkedIn",
			SnippetLimit:  3000,
			AttachImages:  true,
			ImagePurposes: []string{"social"},
			Social:        true,
		},
		"bluesky": {
			Name:          "bluesky",
			DisplayName:   "Bluesky",
			SnippetLimit:  300,
			AttachImages:  true,
			ImagePurposes: []string{"social"},
			Social:        true,
		},
		"website": {
			Name:          "website",
			DisplayName:   "Website",
			AttachImages:  true,
			ImagePurposes: []string{"cover", "inline"},
		},
	}
}

// LoadAll returns the platform profiles: built-in defaults overlaid with any
// YAML files found in the platforms directory.
func (l *Loader) LoadAll() (map[string]*PlatformProfile, error) {
	profiles := defaults()

	if l.platformsDir == "" {
		return profiles, nil
	}
	if _, err := os.Stat(l.platformsDir); os.IsNotExist(err) {
		return profiles, nil
	}

	files, err := filepath.Glob(filepath.Join(l.platformsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(l.platformsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		profile, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(profile); err != nil {
			return nil, fmt.Errorf("invalid profile %s: %w", file, err)
		}

		profiles[profile.Name] = profile
	}

	return profiles, nil
}

// loadFile loads a single YAML profile file
func (l *Loader) loadFile(path string) (*PlatformProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var profile PlatformProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&profile)

	return &profile, nil
}

func (l *Loader) setDefaults(profile *PlatformProfile) {
	if profile.DisplayName == "" {
		profile.DisplayName = profile.Name
	}
	if len(profile.ImagePurposes) == 0 {
		if profile.Social {
			profile.ImagePurposes = []string{"social"}
		} else {
			profile.ImagePurposes = []string{"cover"}
		}
	}
}

func (l *Loader) validate(profile *PlatformProfile) error {
	if profile.Name == "" {
		return fmt.Errorf("platform name is required")
	}
	if profile.SnippetLimit < 0 {
		return fmt.Errorf("snippet limit must be non-negative")
	}

	validPurposes := map[string]bool{
		"cover":     true,
		"inline":    true,
		"social":    true,
		"thumbnail": true,
	}
	for i, purpose := range profile.ImagePurposes {
		if !validPurposes[purpose] {
			return fmt.Errorf("invalid image purpose at index %d: %s", i, purpose)
		}
	}

	return nil
}

// ValidateChannels checks a campaign's channel list against the known
// profiles and returns the unknown ones.
func ValidateChannels(profiles map[string]*PlatformProfile, channels []string) []string {
	var unknown []string
	for _, ch := range channels {
		if _, ok := profiles[ch]; !ok {
			unknown = append(unknown, ch)
		}
	}
	return unknown
}

// ClampSnippet trims a social snippet to the platform's limit, appending an
// ellipsis when it had to cut.
func ClampSnippet(profile *PlatformProfile, snippet string) string {
	if profile == nil || profile.SnippetLimit <= 0 {
		return snippet
	}
	runes := []rune(snippet)
	if len(runes) <= profile.SnippetLimit {
		return snippet
	}
	if profile.SnippetLimit <= 1 {
		return string(runes[:profile.SnippetLimit])
	}
	return string(runes[:profile.SnippetLimit-1]) + "…"
}
