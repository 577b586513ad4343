package cabinet

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aetheroos/aethero-core/internal/domain"
)

// Manifest is the on-disk YAML shape of a ministerial roster.
type Manifest struct {
	Version   string            `yaml:"version"`
	Ministers []domain.Minister `yaml:"ministers"`
}

// LoadManifest reads a roster from a YAML manifest file.
func LoadManifest(path string) (*Cabinet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest builds a cabinet from manifest bytes.
func ParseManifest(data []byte) (*Cabinet, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	c, err := New(m.Ministers)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return c, nil
}
