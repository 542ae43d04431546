package practice

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialSpec_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		spec := CredentialSpec{Name: "GITHUB_TOKEN", Description: "GitHub PAT", Required: true}
		assert.NoError(t, spec.Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		spec := CredentialSpec{Description: "something"}
		assert.Error(t, spec.Validate())
	})

	t.Run("missing description", func(t *testing.T) {
		spec := CredentialSpec{Name: "TOKEN"}
		assert.Error(t, spec.Validate())
	})
}

func TestDeclaration_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p := Declaration{Name: "type-safety", Intent: "Enforce strict typing"}
		assert.NoError(t, p.Validate())
	})

	t.Run("missing fields", func(t *testing.T) {
		assert.Error(t, (&Declaration{Intent: "x"}).Validate())
		assert.Error(t, (&Declaration{Name: "x"}).Validate())
	})
}

func TestDeclaration_Render(t *testing.T) {
	t.Run("raw content wins", func(t *testing.T) {
		p := Declaration{Name: "n", Intent: "i", RawContent: "# original\ncontent"}
		assert.Equal(t, "# original\ncontent", p.Render())
	})

	t.Run("synthesized markdown", func(t *testing.T) {
		p := Declaration{
			Name:                "type-safety",
			Intent:              "Enforce strict typing",
			Principles:          []string{"No any", "Strict null checks"},
			EnforcementPatterns: []string{"CI lint gate"},
			Examples:            []string{"let x: number = 1"},
		}
		out := p.Render()
		assert.True(t, strings.HasPrefix(out, "# type-safety\n"))
		assert.Contains(t, out, "## Principles")
		assert.Contains(t, out, "- No any")
		assert.Contains(t, out, "## Enforcement")
		assert.Contains(t, out, "## Examples")
		assert.Contains(t, out, "```\nlet x: number = 1\n```")
	})
}

func TestMCPDeclaration_Validate(t *testing.T) {
	valid := MCPDeclaration{
		Name:        "github-mcp",
		Description: "GitHub tools",
		Protocol:    ProtocolStdio,
		Command:     "npx",
		Args:        []string{"-y", "@modelcontextprotocol/server-github"},
		Credentials: []CredentialSpec{
			{Name: "GITHUB_TOKEN", Description: "GitHub PAT", Required: true},
		},
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("bad protocol", func(t *testing.T) {
		m := valid
		m.Protocol = "websocket"
		assert.Error(t, m.Validate())
	})

	t.Run("bad pip spec", func(t *testing.T) {
		m := valid
		m.PipPackage = "not a valid spec!!"
		assert.Error(t, m.Validate())
	})

	t.Run("bad credential", func(t *testing.T) {
		m := valid
		m.Credentials = []CredentialSpec{{Name: "X"}}
		assert.Error(t, m.Validate())
	})
}

func TestValidPipSpec(t *testing.T) {
	for _, spec := range []string{
		"mcp-server-git",
		"mcp-server-git==0.4.1",
		"requests>=2.0,<3.0",
		"uvicorn[standard]",
	} {
		assert.True(t, ValidPipSpec(spec), "spec %q", spec)
	}
	for _, spec := range []string{
		"",
		"rm -rf /",
		"pkg; echo pwned",
	} {
		assert.False(t, ValidPipSpec(spec), "spec %q", spec)
	}
}

func TestManifest_RoundTrip(t *testing.T) {
	m := &Manifest{
		FormatVersion: FormatVersion,
		Name:          "my-practices",
		Version:       "1.0.0",
		Description:   "Extracted from my-project",
		Practices: []Declaration{
			{Name: "type-safety", Intent: "Enforce strict typing", Tags: []string{"quality"}},
		},
		MCPServers: []MCPDeclaration{
			{
				Name:        "github-mcp",
				Description: "GitHub tools",
				Protocol:    ProtocolStdio,
				Command:     "npx",
				EnvVars:     map[string]string{"LOG_LEVEL": "info"},
				Credentials: []CredentialSpec{
					{Name: "GITHUB_TOKEN", Description: "GitHub PAT", Required: true},
				},
			},
		},
	}

	data, err := m.Encode()
	require.NoError(t, err)

	parsed, err := ParseManifest(data)
	require.NoError(t, err)
	assert.Equal(t, m, parsed)
}

func TestManifest_Validate(t *testing.T) {
	t.Run("missing top-level fields", func(t *testing.T) {
		assert.Error(t, (&Manifest{Name: "x", Version: "1"}).Validate())
		assert.Error(t, (&Manifest{FormatVersion: "2.0", Version: "1"}).Validate())
		assert.Error(t, (&Manifest{FormatVersion: "2.0", Name: "x"}).Validate())
	})

	t.Run("nested validation", func(t *testing.T) {
		m := &Manifest{
			FormatVersion: "2.0",
			Name:          "x",
			Version:       "1",
			MCPServers:    []MCPDeclaration{{Name: "bad"}},
		}
		assert.Error(t, m.Validate())
	})
}

func TestManifest_LoadWrite(t *testing.T) {
	dir := t.TempDir()

	m := &Manifest{
		FormatVersion: FormatVersion,
		Name:          "pkg",
		Version:       "0.1.0",
	}
	require.NoError(t, WriteManifest(dir, m))

	loaded, err := LoadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, "pkg", loaded.Name)

	t.Run("missing manifest", func(t *testing.T) {
		_, err := LoadManifest(t.TempDir())
		assert.ErrorIs(t, err, ErrNoManifest)
	})

	t.Run("garbage manifest", func(t *testing.T) {
		bad := t.TempDir()
		writeManifestFile(t, bad, ":\n\t- not yaml")
		_, err := LoadManifest(bad)
		assert.Error(t, err)
	})
}

func writeManifestFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(content), 0o600))
}
