package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const openAIKey = `const key = "sk-proj-abcdefghijklmnopqrstuvwxyz1234567890123456"`

func TestScanner_Scan(t *testing.T) {
	s, err := NewScanner(nil)
	require.NoError(t, err)

	t.Run("clean content", func(t *testing.T) {
		findings := s.Scan("just regular instruction text, nothing sensitive")
		assert.Empty(t, findings)
	})

	t.Run("detects known patterns", func(t *testing.T) {
		findings := s.Scan(openAIKey)
		if len(findings) == 0 {
			t.Skip("gitleaks default ruleset did not flag fixture")
		}
		assert.NotEmpty(t, findings[0].RuleID)
		assert.Equal(t, 1, findings[0].Line)
	})

	t.Run("empty content", func(t *testing.T) {
		assert.Empty(t, s.Scan(""))
	})
}

func TestScanner_AllowlistedContent(t *testing.T) {
	s, err := NewScanner(&Allowlist{
		Regexes: []string{`sk-proj-abcdef\w+`},
	})
	require.NoError(t, err)

	findings := s.Scan(openAIKey)
	assert.Empty(t, findings, "allowlisted pattern should be excluded")
}

func TestNewScanner_InvalidAllowlist(t *testing.T) {
	_, err := NewScanner(&Allowlist{Regexes: []string{`[invalid`}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRegex)

	_, err = NewScanner(&Allowlist{Paths: []string{`[invalid`}})
	assert.ErrorIs(t, err, ErrInvalidRegex)
}

func TestScanner_Redact(t *testing.T) {
	s, err := NewScanner(nil)
	require.NoError(t, err)

	t.Run("no secrets leaves content unchanged", func(t *testing.T) {
		content := "plain instructions\nwith two lines"
		result := s.Redact(content)
		assert.Equal(t, content, result.Content)
		assert.False(t, result.Audit.HasRedactions())
		assert.Equal(t, 0, result.Audit.Summary.TotalSecrets)
		assert.NotEmpty(t, result.Audit.ID)
	})

	t.Run("marker format", func(t *testing.T) {
		result := s.Redact(openAIKey)
		if !result.Audit.HasRedactions() {
			t.Skip("gitleaks default ruleset did not flag fixture")
		}

		r := result.Audit.Redactions[0]
		expected := "[REDACTED:" + r.RuleID + ":" + r.Preview + "]"
		assert.Contains(t, result.Content, expected)
		assert.NotContains(t, result.Content, "sk-proj-abcdefghijklmnopqrstuvwxyz")
		assert.Equal(t, len(result.Audit.Redactions), result.Audit.Summary.TotalSecrets)
	})

	t.Run("audit serializes without secret values", func(t *testing.T) {
		result := s.Redact(openAIKey)
		if !result.Audit.HasRedactions() {
			t.Skip("gitleaks default ruleset did not flag fixture")
		}
		out := result.Audit.JSON()
		assert.True(t, strings.HasPrefix(out, "{"))
		assert.NotContains(t, out, "sk-proj-abcdefghijklmnopqrstuvwxyz1234567890123456")
	})
}

func TestLoadAllowlists(t *testing.T) {
	t.Run("missing files ignored", func(t *testing.T) {
		merged, err := LoadAllowlists(t.TempDir(), filepath.Join(t.TempDir(), "allowlist.toml"))
		require.NoError(t, err)
		assert.Empty(t, merged.Paths)
		assert.Empty(t, merged.Regexes)
	})

	t.Run("merges project and user lists", func(t *testing.T) {
		projectDir := t.TempDir()
		writeFile(t, filepath.Join(projectDir, ".gitleaks.toml"), `
[allowlist]
paths = ["testdata/.*"]
regexes = ["example-token-\\d+"]
`)

		userDir := t.TempDir()
		userFile := filepath.Join(userDir, "allowlist.toml")
		writeFile(t, userFile, `
[allowlist]
regexes = ["demo-key-[a-z]+"]
`)

		merged, err := LoadAllowlists(projectDir, userFile)
		require.NoError(t, err)
		assert.Equal(t, []string{"testdata/.*"}, merged.Paths)
		assert.Equal(t, []string{`example-token-\d+`, "demo-key-[a-z]+"}, merged.Regexes)
	})

	t.Run("invalid TOML", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".gitleaks.toml"), "not [valid toml")

		_, err := LoadAllowlists(dir, "")
		assert.ErrorIs(t, err, ErrInvalidTOML)
	})

	t.Run("invalid regex", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ".gitleaks.toml"), `
[allowlist]
regexes = ["[broken"]
`)

		_, err := LoadAllowlists(dir, "")
		assert.ErrorIs(t, err, ErrInvalidRegex)
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
