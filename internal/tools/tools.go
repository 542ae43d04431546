// Package tools knows where each supported AI coding assistant keeps its
// instruction files and MCP configuration, and how to detect whether a
// tool is present on the machine.
package tools

import (
	"os"
	"path/filepath"
)

// Tool IDs.
const (
	Claude = "claude"
	Cursor = "cursor"
	Cline  = "cline"
	Roo    = "roo"
)

// Tool describes one AI coding assistant's configuration layout.
type Tool struct {
	// ID is the stable identifier used in manifests and flags.
	ID string

	// Name is the human-readable tool name.
	Name string

	// RulesDir is the project-relative directory for instruction files.
	RulesDir string

	// FileExt is the instruction file extension, including the dot.
	FileExt string

	// MCPConfigFile is the project-relative MCP config path. Empty when
	// the tool keeps MCP config only in global storage.
	MCPConfigFile string

	// detectDirs are home-relative directories whose existence indicates
	// the tool is installed (VS Code extension globalStorage for the
	// extension-based tools).
	detectDirs []string
}

// registry lists supported tools in presentation order.
var registry = []Tool{
	{
		ID:            Claude,
		Name:          "Claude Code",
		RulesDir:      filepath.Join(".claude", "rules"),
		FileExt:       ".md",
		MCPConfigFile: ".mcp.json",
		detectDirs:    []string{".claude"},
	},
	{
		ID:            Cursor,
		Name:          "Cursor",
		RulesDir:      filepath.Join(".cursor", "rules"),
		FileExt:       ".mdc",
		MCPConfigFile: filepath.Join(".cursor", "mcp.json"),
		detectDirs:    []string{".cursor"},
	},
	{
		ID:       Cline,
		Name:     "Cline",
		RulesDir: ".clinerules",
		FileExt:  ".md",
		// Cline keeps MCP config in extension globalStorage only.
		detectDirs: []string{
			filepath.Join(".config", "Code", "User", "globalStorage", "saoudrizwan.claude-dev"),
			filepath.Join("Library", "Application Support", "Code", "User", "globalStorage", "saoudrizwan.claude-dev"),
		},
	},
	{
		ID:            Roo,
		Name:          "Roo Code",
		RulesDir:      filepath.Join(".roo", "rules"),
		FileExt:       ".md",
		MCPConfigFile: filepath.Join(".roo", "mcp.json"),
		detectDirs: []string{
			filepath.Join(".config", "Code", "User", "globalStorage", "rooveterinaryinc.roo-cline"),
			filepath.Join("Library", "Application Support", "Code", "User", "globalStorage", "rooveterinaryinc.roo-cline"),
		},
	},
}

// All returns the supported tools.
func All() []Tool {
	out := make([]Tool, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a tool by ID.
func Lookup(id string) (Tool, bool) {
	for _, t := range registry {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// ProjectRulesDir returns the absolute instruction directory for a
// project root.
func (t Tool) ProjectRulesDir(projectRoot string) string {
	return filepath.Join(projectRoot, t.RulesDir)
}

// MCPConfigPath returns the absolute project-level MCP config path, or
// "" when the tool has no project-level MCP config.
func (t Tool) MCPConfigPath(projectRoot string) string {
	if t.MCPConfigFile == "" {
		return ""
	}
	return filepath.Join(projectRoot, t.MCPConfigFile)
}

// Installed reports whether the tool appears installed under the given
// home directory.
func (t Tool) Installed(home string) bool {
	for _, dir := range t.detectDirs {
		if info, err := os.Stat(filepath.Join(home, dir)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// DetectInstalled returns the tools present under the given home
// directory, in registry order.
func DetectInstalled(home string) []Tool {
	var found []Tool
	for _, t := range registry {
		if t.Installed(home) {
			found = append(found, t)
		}
	}
	return found
}

// ruleDirs are the project-relative locations scanned for existing
// instruction files, across all known tools.
var ruleDirs = []string{
	filepath.Join(".cursor", "rules"),
	filepath.Join(".claude", "rules"),
	filepath.Join(".windsurf", "rules"),
	filepath.Join(".github", "instructions"),
	filepath.Join(".kiro", "steering"),
	".clinerules",
	filepath.Join(".roo", "rules"),
}

// ExistingRules collects instruction files already present in a project,
// keyed by project-relative path. Unreadable files are skipped.
func ExistingRules(projectRoot string) map[string]string {
	rules := make(map[string]string)
	for _, dir := range ruleDirs {
		dirPath := filepath.Join(projectRoot, dir)
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := filepath.Ext(entry.Name())
			if ext != ".md" && ext != ".mdc" {
				continue
			}
			path := filepath.Join(dirPath, entry.Name())
			content, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			rules[filepath.Join(dir, entry.Name())] = string(content)
		}
	}
	return rules
}
