package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader reads a Homepage bookmarks.yaml or services.yaml
type Loader struct {
	filePath string
}

// NewLoader creates a new Homepage loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// LoadBookmarks parses the file as bookmarks.yaml
func (l *Loader) LoadBookmarks() (BookmarksConfig, error) {
	var config BookmarksConfig
	if err := l.load(&config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadServices parses the file as services.yaml
func (l *Loader) LoadServices() (ServicesConfig, error) {
	var config ServicesConfig
	if err := l.load(&config); err != nil {
		return nil, err
	}
	return config, nil
}

// Load parses the file in the given format and maps it to rows.
func (l *Loader) Load(format Format, m *Mapper) (*Import, error) {
	switch format {
	case FormatBookmarks:
		config, err := l.LoadBookmarks()
		if err != nil {
			return nil, err
		}
		return m.MapBookmarks(config)
	case FormatServices:
		config, err := l.LoadServices()
		if err != nil {
			return nil, err
		}
		return m.MapServices(config)
	default:
		return nil, fmt.Errorf("unknown homepage format %q", format)
	}
}

func (l *Loader) load(out any) error {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", l.filePath, err)
	}

	data = stripTemplateVariables(data)

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", l.filePath, err)
	}
	return nil
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
