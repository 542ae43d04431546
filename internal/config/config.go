// Package config loads devsync configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/devsyncd/devsync/internal/llm"
	"github.com/devsyncd/devsync/internal/logging"
	"github.com/devsyncd/devsync/internal/secrets"
)

const (
	envPrefix         = "DEVSYNC_"
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// configSections are the top-level keys the env transformer recognizes.
var configSections = map[string]bool{
	"logging":  true,
	"detector": true,
	"scan":     true,
	"llm":      true,
}

// ScanConfig configures the deep content scanner.
type ScanConfig struct {
	// UserAllowlist is the path to a user-level gitleaks allowlist TOML
	// file, merged with the project's .gitleaks.toml.
	UserAllowlist string `koanf:"user_allowlist"`
}

// Config is the full devsync configuration.
type Config struct {
	Logging  logging.Config `koanf:"logging"`
	Detector secrets.Config `koanf:"detector"`
	Scan     ScanConfig     `koanf:"scan"`
	LLM      llm.Config     `koanf:"llm"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Logging:  *logging.DefaultConfig(),
		Detector: *secrets.DefaultConfig(),
	}
}

// Validate checks all sections, filling zero fields from defaults.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Detector.Validate(); err != nil {
		return fmt.Errorf("detector: %w", err)
	}
	return nil
}

// DefaultPath returns ~/.config/devsync/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "devsync", "config.yaml"), nil
}

// Load reads configuration with the following precedence, highest first:
//
//  1. Environment variables (DEVSYNC_LOGGING_LEVEL, DEVSYNC_LLM_MODEL, ...)
//  2. YAML config file
//  3. Defaults
//
// An empty path uses DefaultPath; a missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	if info, err := os.Stat(path); err == nil {
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening config file: %w", err)
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", transformEnv), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// transformEnv maps DEVSYNC_SECTION_FIELD_NAME to section.field_name.
// The first underscore-delimited token after the prefix selects the
// section; the rest is the field, underscores preserved. Variables whose
// first token is not a known section are ignored.
func transformEnv(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok || !configSections[section] {
		return ""
	}
	return section + "." + field
}
