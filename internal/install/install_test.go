package install

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsyncd/devsync/internal/practice"
)

func githubServer() practice.MCPDeclaration {
	return practice.MCPDeclaration{
		Name:        "github-mcp",
		Description: "GitHub tools",
		Protocol:    practice.ProtocolStdio,
		Command:     "npx",
		Args:        []string{"-y", "@modelcontextprotocol/server-github"},
		EnvVars:     map[string]string{"LOG_LEVEL": "info"},
		Credentials: []practice.CredentialSpec{
			{Name: "GITHUB_TOKEN", Description: "GitHub PAT", Required: true},
			{Name: "GITHUB_HOST", Description: "GHE host", Required: false},
		},
	}
}

func TestResolver_Resolve(t *testing.T) {
	t.Run("environment wins", func(t *testing.T) {
		lookup := func(name string) (string, bool) {
			if name == "GITHUB_TOKEN" {
				return "ghp_from_env", true
			}
			return "", false
		}
		r := NewResolver(lookup, nil, nil)

		creds, err := r.Resolve([]practice.MCPDeclaration{githubServer()})
		require.NoError(t, err)
		assert.Equal(t, "ghp_from_env", creds["github-mcp"]["GITHUB_TOKEN"])
		_, hasOptional := creds["github-mcp"]["GITHUB_HOST"]
		assert.False(t, hasOptional, "unresolved optional credential skipped")
	})

	t.Run("prompt fallback", func(t *testing.T) {
		prompted := make([]string, 0, 2)
		prompt := func(serverName string, spec practice.CredentialSpec) (string, error) {
			prompted = append(prompted, spec.Name)
			if spec.Name == "GITHUB_TOKEN" {
				return "  ghp_from_prompt  ", nil
			}
			return "", nil
		}
		r := NewResolver(nil, prompt, nil)

		creds, err := r.Resolve([]practice.MCPDeclaration{githubServer()})
		require.NoError(t, err)
		assert.Equal(t, "ghp_from_prompt", creds["github-mcp"]["GITHUB_TOKEN"], "value is trimmed")
		assert.Equal(t, []string{"GITHUB_TOKEN", "GITHUB_HOST"}, prompted)
	})

	t.Run("default used when nothing else resolves", func(t *testing.T) {
		server := githubServer()
		server.Credentials = []practice.CredentialSpec{
			{Name: "GITHUB_HOST", Description: "GHE host", Required: true, Default: "github.com"},
		}
		r := NewResolver(nil, nil, nil)

		creds, err := r.Resolve([]practice.MCPDeclaration{server})
		require.NoError(t, err)
		assert.Equal(t, "github.com", creds["github-mcp"]["GITHUB_HOST"])
	})

	t.Run("missing required credential", func(t *testing.T) {
		r := NewResolver(nil, nil, nil)
		_, err := r.Resolve([]practice.MCPDeclaration{githubServer()})
		assert.ErrorIs(t, err, ErrCredentialRequired)
	})

	t.Run("prompt error propagates", func(t *testing.T) {
		boom := errors.New("terminal closed")
		prompt := func(string, practice.CredentialSpec) (string, error) { return "", boom }
		r := NewResolver(nil, prompt, nil)

		_, err := r.Resolve([]practice.MCPDeclaration{githubServer()})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("servers without credentials skipped", func(t *testing.T) {
		server := githubServer()
		server.Credentials = nil
		r := NewResolver(nil, nil, nil)

		creds, err := r.Resolve([]practice.MCPDeclaration{server})
		require.NoError(t, err)
		assert.Empty(t, creds)
	})
}

func TestBuildMCPConfig(t *testing.T) {
	server := githubServer()
	config := BuildMCPConfig(server, map[string]string{"GITHUB_TOKEN": "ghp_value"})

	assert.Equal(t, "npx", config["command"])
	assert.Equal(t, []string{"-y", "@modelcontextprotocol/server-github"}, config["args"])

	env, ok := config["env"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "info", env["LOG_LEVEL"])
	assert.Equal(t, "ghp_value", env["GITHUB_TOKEN"])

	t.Run("no env block when empty", func(t *testing.T) {
		bare := practice.MCPDeclaration{
			Name: "bare", Description: "d", Protocol: practice.ProtocolStdio, Command: "run",
		}
		config := BuildMCPConfig(bare, nil)
		_, hasEnv := config["env"]
		assert.False(t, hasEnv)
	})
}

func TestWriteEnvFile(t *testing.T) {
	t.Run("writes and gitignores", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")

		creds := Credentials{
			"github-mcp": {"GITHUB_TOKEN": "ghp_value"},
		}
		require.NoError(t, WriteEnvFile(path, creds))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "GITHUB_TOKEN=ghp_value\n", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
		require.NoError(t, err)
		assert.Contains(t, string(gitignore), ".env")
	})

	t.Run("updates existing keys in place", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte("# creds\nGITHUB_TOKEN=old\nOTHER=keep\n"), 0o600))

		creds := Credentials{"github-mcp": {"GITHUB_TOKEN": "new"}}
		require.NoError(t, WriteEnvFile(path, creds))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Equal(t, []string{"# creds", "GITHUB_TOKEN=new", "OTHER=keep"}, lines)
	})

	t.Run("gitignore entry not duplicated", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env")
		creds := Credentials{"s": {"K": "v"}}

		require.NoError(t, WriteEnvFile(path, creds))
		require.NoError(t, WriteEnvFile(path, creds))

		gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(gitignore), ".env"))
	})
}
