package homepage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "homepage.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoadBookmarks(t *testing.T) {
	path := writeYAML(t, `---
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Go Docs:
        - abbr: GO
          href: https://go.dev/doc
- Social:
    - Reddit:
        - icon: reddit.png
          href: https://reddit.com/
`)

	config, err := NewLoader(path).LoadBookmarks()
	if err != nil {
		t.Fatalf("LoadBookmarks() error = %v", err)
	}
	if len(config) != 2 {
		t.Fatalf("LoadBookmarks() returned %d categories, want 2", len(config))
	}
	dev := config[0]["Developer"]
	if len(dev) != 2 {
		t.Fatalf("Developer has %d bookmarks, want 2", len(dev))
	}
	if got := dev[0]["Github"][0].Href; got != "https://github.com/" {
		t.Errorf("Github href = %q", got)
	}
}

func TestLoaderLoadServices(t *testing.T) {
	path := writeYAML(t, `---
- Infrastructure:
    - AdGuard Home:
        icon: adguard-home.svg
        href: https://adguard.domain.ext
        description: Network-wide ads & trackers blocking DNS server
`)

	config, err := NewLoader(path).LoadServices()
	if err != nil {
		t.Fatalf("LoadServices() error = %v", err)
	}
	if len(config) == 0 {
		t.Fatal("LoadServices() returned empty config")
	}
	if got := config[0]["Infrastructure"][0]["AdGuard Home"].Href; got != "https://adguard.domain.ext" {
		t.Errorf("href = %q", got)
	}
}

func TestLoaderLoadWithTemplateVariables(t *testing.T) {
	path := writeYAML(t, `---
- Infrastructure:
    - AdGuard Home:
        icon: adguard-home.svg
        href: {{HOMEPAGE_VAR_ADGUARD_URL}}
        description: Test
    - Traefik:
        href: https://traefik.domain.ext
`)

	imp, err := NewLoader(path).Load(FormatServices, NewMapper())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(imp.Bookmarks) != 1 {
		t.Fatalf("Load() returned %d bookmarks, want 1", len(imp.Bookmarks))
	}
	if imp.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1 for the templated href", imp.Skipped)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	_, err := NewLoader("/nonexistent/path/bookmarks.yaml").LoadBookmarks()
	if err == nil {
		t.Error("LoadBookmarks() with non-existent file should return error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
}

func TestLoaderUnknownFormat(t *testing.T) {
	path := writeYAML(t, "[]\n")
	if _, err := NewLoader(path).Load(Format("widgets"), NewMapper()); err == nil {
		t.Error("Load() with an unknown format should return error")
	}
}

func TestStripTemplateVariablesFunc(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "single template variable",
			input:    []byte("url: {{HOMEPAGE_VAR_URL}}"),
			expected: "url: \"\"",
		},
		{
			name:     "two template variables",
			input:    []byte("a: {{HOMEPAGE_VAR_A}}\nb: {{HOMEPAGE_VAR_B}}"),
			expected: "a: \"\"\nb: \"\"",
		},
		{
			name:     "no template variables",
			input:    []byte("plain text"),
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripTemplateVariables(tt.input)
			if string(result) != tt.expected {
				t.Errorf("stripTemplateVariables() = %q, want %q", string(result), tt.expected)
			}
		})
	}
}
