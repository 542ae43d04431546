// Package practice defines the shareable package model: abstract coding
// practices, MCP server declarations with credentials stripped, and the
// YAML manifest tying them together.
package practice

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Protocols supported by MCP server declarations.
const (
	ProtocolStdio = "stdio"
	ProtocolSSE   = "sse"
)

// pipSpecRe matches a pip requirement: name, optional extras, optional
// version specifier (e.g. "mcp-server-git[cli]>=0.4").
var pipSpecRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*(\[[A-Za-z0-9,._ -]+\])?\s*([<>=!~]=?\s*[\w.*+!-]+(\s*,\s*[<>=!~]=?\s*[\w.*+!-]+)*)?$`)

// CredentialSpec describes a credential an MCP server requires. It holds
// the environment variable name and prompting metadata, never the value.
type CredentialSpec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Default     string `yaml:"default,omitempty"`
}

// Validate checks required fields.
func (c *CredentialSpec) Validate() error {
	if c.Name == "" {
		return errors.New("credential spec name cannot be empty")
	}
	if c.Description == "" {
		return fmt.Errorf("credential spec %s: description cannot be empty", c.Name)
	}
	return nil
}

// Declaration is an abstract coding practice extracted from project
// configs. Unlike plain file copies, practices are semantic declarations
// of intent that can be adapted to any AI tool's format.
type Declaration struct {
	Name                string   `yaml:"name"`
	Intent              string   `yaml:"intent"`
	Principles          []string `yaml:"principles,omitempty"`
	EnforcementPatterns []string `yaml:"enforcement_patterns,omitempty"`
	Examples            []string `yaml:"examples,omitempty"`
	Tags                []string `yaml:"tags,omitempty"`

	// SourceFile is the original file this was extracted from.
	SourceFile string `yaml:"source_file,omitempty"`

	// RawContent is the original file content, kept as a fallback when no
	// semantic extraction ran.
	RawContent string `yaml:"raw_content,omitempty"`
}

// Validate checks required fields.
func (p *Declaration) Validate() error {
	if p.Name == "" {
		return errors.New("practice name cannot be empty")
	}
	if p.Intent == "" {
		return fmt.Errorf("practice %s: intent cannot be empty", p.Name)
	}
	return nil
}

// Render produces markdown instruction content for the practice. When the
// original content was preserved it wins over the synthesized form.
func (p *Declaration) Render() string {
	if p.RawContent != "" {
		return p.RawContent
	}

	var b strings.Builder
	b.WriteString("# " + p.Name + "\n\n" + p.Intent + "\n")

	writeSection := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n## " + title + "\n\n")
		for _, item := range items {
			b.WriteString("- " + item + "\n")
		}
	}
	writeSection("Principles", p.Principles)
	writeSection("Enforcement", p.EnforcementPatterns)

	if len(p.Examples) > 0 {
		b.WriteString("\n## Examples\n")
		for _, ex := range p.Examples {
			b.WriteString("\n```\n" + ex + "\n```\n")
		}
	}
	return b.String()
}

// MCPDeclaration describes an MCP server with credentials stripped: only
// metadata, non-secret environment variables, and credential specs are
// stored.
type MCPDeclaration struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Protocol    string            `yaml:"protocol"`
	Command     string            `yaml:"command,omitempty"`
	Args        []string          `yaml:"args,omitempty"`
	EnvVars     map[string]string `yaml:"env_vars,omitempty"`
	Credentials []CredentialSpec  `yaml:"credentials,omitempty"`
	PipPackage  string            `yaml:"pip_package,omitempty"`
}

// Validate checks required fields and the protocol.
func (m *MCPDeclaration) Validate() error {
	if m.Name == "" {
		return errors.New("mcp declaration name cannot be empty")
	}
	if m.Description == "" {
		return fmt.Errorf("mcp declaration %s: description cannot be empty", m.Name)
	}
	if m.Protocol != ProtocolStdio && m.Protocol != ProtocolSSE {
		return fmt.Errorf("mcp declaration %s: protocol must be %q or %q, got %q",
			m.Name, ProtocolStdio, ProtocolSSE, m.Protocol)
	}
	if m.PipPackage != "" && !ValidPipSpec(m.PipPackage) {
		return fmt.Errorf("mcp declaration %s: invalid pip spec %q", m.Name, m.PipPackage)
	}
	for i := range m.Credentials {
		if err := m.Credentials[i].Validate(); err != nil {
			return fmt.Errorf("mcp declaration %s: %w", m.Name, err)
		}
	}
	return nil
}

// ValidPipSpec reports whether s looks like a valid pip requirement
// specifier.
func ValidPipSpec(s string) bool {
	return pipSpecRe.MatchString(strings.TrimSpace(s))
}
