package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadAllDefaults(t *testing.T) {
	loader := NewLoader("")

	profiles, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	for _, name := range []string{"twitter", "linkedin", "bluesky", "website"} {
		if _, ok := profiles[name]; !ok {
			t.Errorf("Missing built-in profile %q", name)
		}
	}

	if !profiles["twitter"].Social || profiles["twitter"].SnippetLimit != 280 {
		t.Errorf("Unexpected twitter profile: %+v", profiles["twitter"])
	}
	if profiles["website"].Social {
		t.Error("Website profile should not be social")
	}
}

func TestLoadAllFromDirectory(t *testing.T) {
	dir := t.TempDir()
	profile := `name: mastodon
display_name: Mastodon
snippet_limit: 500
attach_images: true
social: true
`
	if err := os.WriteFile(filepath.Join(dir, "mastodon.yaml"), []byte(profile), 0o644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	loader := NewLoader(dir)
	profiles, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	m, ok := profiles["mastodon"]
	if !ok {
		t.Fatal("Custom profile not loaded")
	}
	if m.SnippetLimit != 500 || !m.Social {
		t.Errorf("Unexpected profile: %+v", m)
	}
	if len(m.ImagePurposes) != 1 || m.ImagePurposes[0] != "social" {
		t.Errorf("Expected default social image purpose, got %v", m.ImagePurposes)
	}

	// Built-ins survive alongside custom profiles
	if _, ok := profiles["twitter"]; !ok {
		t.Error("Built-in profiles should remain available")
	}
}

func TestLoadAllOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	profile := `name: twitter
display_name: X
snippet_limit: 500
`
	if err := os.WriteFile(filepath.Join(dir, "twitter.yml"), []byte(profile), 0o644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	loader := NewLoader(dir)
	profiles, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	if profiles["twitter"].SnippetLimit != 500 {
		t.Errorf("File should override built-in, got limit %d", profiles["twitter"].SnippetLimit)
	}
}

func TestLoadAllRejectsInvalidProfile(t *testing.T) {
	dir := t.TempDir()
	profile := `name: broken
image_purposes: ["banner"]
`
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(profile), 0o644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	if _, err := NewLoader(dir).LoadAll(); err == nil {
		t.Fatal("Invalid image purpose should fail loading")
	}
}

func TestValidateChannels(t *testing.T) {
	profiles, _ := NewLoader("").LoadAll()

	unknown := ValidateChannels(profiles, []string{"website", "myspace", "twitter"})
	if len(unknown) != 1 || unknown[0] != "myspace" {
		t.Errorf("Expected [myspace], got %v", unknown)
	}
}

func TestClampSnippet(t *testing.T) {
	p := &PlatformProfile{Name: "twitter", SnippetLimit: 10}

	if got := ClampSnippet(p, "short"); got != "short" {
		t.Errorf("Short snippet must pass through, got %q", got)
	}

	long := strings.Repeat("a", 20)
	got := ClampSnippet(p, long)
	if len([]rune(got)) != 10 {
		t.Errorf("Expected 10 runes, got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}

	if got := ClampSnippet(nil, long); got != long {
		t.Errorf("Nil profile must not clamp, got %q", got)
	}
}
