// Package extract turns parsed project configuration into shareable
// package content. It is the integration point between the heuristic
// secret detector, the deep content scanner and the practice model:
// MCP server blocks are templated before they reach a manifest, and
// instruction file content is swept for leaked credentials.
package extract

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/devsyncd/devsync/internal/practice"
	"github.com/devsyncd/devsync/internal/scan"
	"github.com/devsyncd/devsync/internal/secrets"
)

// Report records what extraction redacted, per server and per file.
type Report struct {
	// TemplatedKeys maps server names to the config keys that were
	// replaced with placeholders, in visit order.
	TemplatedKeys map[string][]string

	// Findings maps instruction file names to deep-scan findings.
	Findings map[string][]scan.Finding
}

// TotalTemplated returns the number of keys redacted across all servers.
func (r Report) TotalTemplated() int {
	n := 0
	for _, keys := range r.TemplatedKeys {
		n += len(keys)
	}
	return n
}

// Extractor builds practice declarations from project configuration,
// stripping credentials on the way out.
type Extractor struct {
	det     *secrets.Detector
	scanner *scan.Scanner
	log     *zap.Logger
}

// New creates an Extractor. A nil detector uses the default
// configuration, a nil scanner disables deep content scanning and a nil
// logger discards logs.
func New(det *secrets.Detector, scanner *scan.Scanner, log *zap.Logger) *Extractor {
	if det == nil {
		det = secrets.MustNew(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{det: det, scanner: scanner, log: log}
}

// ExtractMCPServers converts parsed MCP server blocks (server name to
// its config mapping, as loaded from a tool's MCP config file) into
// credential-stripped declarations. Every string value classified as a
// likely secret is replaced with a placeholder; placeholders inside the
// env block become credential specs the installer resolves later.
func (e *Extractor) ExtractMCPServers(servers map[string]map[string]any) ([]practice.MCPDeclaration, Report) {
	report := Report{TemplatedKeys: make(map[string][]string)}

	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)

	decls := make([]practice.MCPDeclaration, 0, len(servers))
	for _, name := range names {
		block := servers[name]

		templated, keys := secrets.TemplateConfig(block, e.det)
		if len(keys) > 0 {
			report.TemplatedKeys[name] = keys
			e.log.Debug("templated mcp server config",
				zap.String("server", name),
				zap.Strings("keys", keys))
		}

		decls = append(decls, e.buildDeclaration(name, templated))
	}
	return decls, report
}

// buildDeclaration maps a templated config block onto the declaration
// model. Placeholder-valued env entries become credential specs; the
// rest stay as plain environment variables.
func (e *Extractor) buildDeclaration(name string, block map[string]any) practice.MCPDeclaration {
	decl := practice.MCPDeclaration{
		Name:        name,
		Description: stringValue(block, "description"),
		Protocol:    practice.ProtocolStdio,
		Command:     stringValue(block, "command"),
		Args:        stringSlice(block, "args"),
	}
	if decl.Description == "" {
		decl.Description = fmt.Sprintf("MCP server %q extracted from project configuration", name)
	}
	if url := stringValue(block, "url"); url != "" {
		decl.Protocol = practice.ProtocolSSE
	}

	env, _ := block["env"].(map[string]any)
	for _, envKey := range sortedKeys(env) {
		value, ok := env[envKey].(string)
		if !ok {
			continue
		}
		if varName, isCred := placeholderName(value); isCred {
			decl.Credentials = append(decl.Credentials, practice.CredentialSpec{
				Name:        varName,
				Description: fmt.Sprintf("%s for the %s server", envKey, name),
				Required:    true,
			})
			continue
		}
		if decl.EnvVars == nil {
			decl.EnvVars = make(map[string]string)
		}
		decl.EnvVars[envKey] = value
	}
	return decl
}

// ScanInstruction sweeps instruction file content with the Gitleaks
// scanner and records findings in the report. Returns the findings so
// callers can refuse to package leaking files.
func (e *Extractor) ScanInstruction(report *Report, fileName, content string) []scan.Finding {
	if e.scanner == nil {
		return nil
	}

	findings := e.scanner.Scan(content)
	if len(findings) == 0 {
		return nil
	}

	if report.Findings == nil {
		report.Findings = make(map[string][]scan.Finding)
	}
	report.Findings[fileName] = findings

	rules := make([]string, 0, len(findings))
	for _, f := range findings {
		rules = append(rules, f.RuleID)
	}
	e.log.Warn("instruction file contains likely secrets",
		zap.String("file", fileName),
		zap.Strings("rules", rules))
	return findings
}

// placeholderName extracts NAME from a "${NAME}" placeholder value.
func placeholderName(s string) (string, bool) {
	if len(s) > 3 && strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return s[2 : len(s)-1], true
	}
	return "", false
}

func stringValue(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringSlice(m map[string]any, key string) []string {
	items, ok := m[key].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
