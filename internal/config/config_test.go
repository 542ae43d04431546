package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults when file missing", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, 4.5, cfg.Detector.HighEntropyThreshold)
		assert.Equal(t, 8, cfg.Detector.MinSecretLength)
		assert.Contains(t, cfg.Detector.SecretKeywords, "TOKEN")
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
logging:
  level: debug
  format: console
detector:
  high_entropy_threshold: 5.0
scan:
  user_allowlist: /home/dev/.devsync-allowlist.toml
llm:
  provider: openai
  model: gpt-4o-mini
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "console", cfg.Logging.Format)
		assert.Equal(t, 5.0, cfg.Detector.HighEntropyThreshold)
		assert.Equal(t, 8, cfg.Detector.MinSecretLength, "unset fields keep defaults")
		assert.Equal(t, "/home/dev/.devsync-allowlist.toml", cfg.Scan.UserAllowlist)
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "logging:\n  level: debug\n")
		t.Setenv("DEVSYNC_LOGGING_LEVEL", "warn")
		t.Setenv("DEVSYNC_LLM_BASE_URL", "http://localhost:8080")

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "http://localhost:8080", cfg.LLM.BaseURL)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeConfig(t, "logging: [not: a: mapping\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid log level rejected", func(t *testing.T) {
		path := writeConfig(t, "logging:\n  level: loud\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "logging")
	})

	t.Run("negative entropy threshold rejected", func(t *testing.T) {
		path := writeConfig(t, "detector:\n  high_entropy_threshold: -1\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "detector")
	})

	t.Run("oversized file rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		big := make([]byte, maxConfigFileSize+1)
		require.NoError(t, os.WriteFile(path, big, 0o600))

		_, err := Load(path)
		assert.ErrorContains(t, err, "exceeds")
	})
}

func TestTransformEnv(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DEVSYNC_LOGGING_LEVEL", "logging.level"},
		{"DEVSYNC_DETECTOR_HIGH_ENTROPY_THRESHOLD", "detector.high_entropy_threshold"},
		{"DEVSYNC_SCAN_USER_ALLOWLIST", "scan.user_allowlist"},
		{"DEVSYNC_LLM_BASE_URL", "llm.base_url"},
		{"DEVSYNC_UNKNOWN_THING", ""},
		{"DEVSYNC_LOGGING", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, transformEnv(tt.in), tt.in)
	}
}
