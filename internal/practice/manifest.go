package practice

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the canonical manifest file name inside a package.
const ManifestFileName = "devsync-package.yaml"

// FormatVersion is the manifest format this package reads and writes.
const FormatVersion = "2.0"

// ErrNoManifest indicates a package directory without a manifest file.
var ErrNoManifest = errors.New("no package manifest found")

// Manifest is the top-level package description.
type Manifest struct {
	FormatVersion string           `yaml:"format_version"`
	Name          string           `yaml:"name"`
	Version       string           `yaml:"version"`
	Description   string           `yaml:"description,omitempty"`
	Practices     []Declaration    `yaml:"practices,omitempty"`
	MCPServers    []MCPDeclaration `yaml:"mcp_servers,omitempty"`
}

// Validate checks the manifest and all nested declarations.
func (m *Manifest) Validate() error {
	if m.FormatVersion == "" {
		return errors.New("manifest format_version cannot be empty")
	}
	if m.Name == "" {
		return errors.New("manifest name cannot be empty")
	}
	if m.Version == "" {
		return errors.New("manifest version cannot be empty")
	}
	for i := range m.Practices {
		if err := m.Practices[i].Validate(); err != nil {
			return fmt.Errorf("manifest %s: %w", m.Name, err)
		}
	}
	for i := range m.MCPServers {
		if err := m.MCPServers[i].Validate(); err != nil {
			return fmt.Errorf("manifest %s: %w", m.Name, err)
		}
	}
	return nil
}

// Encode serializes the manifest as YAML.
func (m *Manifest) Encode() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return yaml.Marshal(m)
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads the manifest from a package directory.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w in %s", ErrNoManifest, dir)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data)
}

// WriteManifest writes the manifest into a package directory, creating
// the directory if needed.
func WriteManifest(dir string, m *Manifest) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating package directory: %w", err)
	}
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
