// Package scan provides deep content scanning for instruction files using
// the Gitleaks SDK. It complements the heuristic detector in
// internal/secrets: the detector classifies individual config values by
// key and shape, while the scanner sweeps free-form file content against
// the full Gitleaks pattern bank before a package is shared.
package scan

import (
	"fmt"
	"regexp"

	gitleaksConfig "github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
	gitleaksRegexp "github.com/zricethezav/gitleaks/v8/regexp"
)

// Finding is a detected secret with location information.
type Finding struct {
	RuleID   string // Gitleaks rule ID (e.g., "github-pat")
	RuleDesc string // Human-readable description
	Line     int    // Line number where the secret starts (1-indexed)
	StartCol int    // Start column (0-indexed)
	EndCol   int    // End column (0-indexed)
	Match    string // The actual secret value
}

// Scanner scans content against the Gitleaks default ruleset, optionally
// narrowed by an allowlist. Construct once and reuse: building the
// Gitleaks detector compiles several hundred patterns.
type Scanner struct {
	detector *detect.Detector
}

// NewScanner creates a Scanner. A nil allowlist scans with the unmodified
// default ruleset.
func NewScanner(allowlist *Allowlist) (*Scanner, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("creating gitleaks detector: %w", err)
	}

	if allowlist != nil {
		if err := applyAllowlist(&detector.Config, allowlist); err != nil {
			return nil, err
		}
	}

	return &Scanner{detector: detector}, nil
}

// Scan returns all secret findings in content.
func (s *Scanner) Scan(content string) []Finding {
	gitleaksFindings := s.detector.DetectString(content)

	result := make([]Finding, 0, len(gitleaksFindings))
	for _, f := range gitleaksFindings {
		result = append(result, Finding{
			RuleID:   f.RuleID,
			RuleDesc: f.Description,
			Line:     f.StartLine,
			StartCol: f.StartColumn,
			EndCol:   f.EndColumn,
			Match:    f.Secret,
		})
	}
	return result
}

// applyAllowlist merges allowlist patterns into the Gitleaks config.
// Patterns are compiled here; invalid ones surface as errors rather than
// being silently skipped.
func applyAllowlist(cfg *gitleaksConfig.Config, allowlist *Allowlist) error {
	global := &gitleaksConfig.Allowlist{
		Description: "devsync user/project allowlist",
	}

	for _, pattern := range allowlist.Paths {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("%w: path pattern %q: %v", ErrInvalidRegex, pattern, err)
		}
		global.Paths = append(global.Paths, (*gitleaksRegexp.Regexp)(re))
	}

	for _, pattern := range allowlist.Regexes {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("%w: content pattern %q: %v", ErrInvalidRegex, pattern, err)
		}
		global.Regexes = append(global.Regexes, (*gitleaksRegexp.Regexp)(re))
	}

	cfg.Allowlists = append(cfg.Allowlists, global)
	return nil
}
