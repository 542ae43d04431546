package scan

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Redact replaces every finding in content with a
// "[REDACTED:rule-id:preview]" marker and returns the audit trail. The
// marker keeps enough context (rule and a 4-char preview) for a reader to
// recognize what was removed without exposing the value.
func (s *Scanner) Redact(content string) RedactResult {
	start := time.Now()
	findings := s.Scan(content)
	audit := buildAuditLog(findings, time.Since(start))

	if len(findings) == 0 {
		return RedactResult{Content: content, Audit: audit}
	}

	return RedactResult{
		Content: replaceFindings(content, findings),
		Audit:   audit,
	}
}

// RedactResult contains redacted content and its audit trail.
type RedactResult struct {
	Content string
	Audit   AuditLog
}

// AuditLog records what was redacted, without the secret values.
type AuditLog struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Redactions []Redaction `json:"redactions"`
	Summary    Summary     `json:"summary"`
}

// Redaction is one redacted secret. Only metadata is stored.
type Redaction struct {
	RuleID      string `json:"rule_id"`
	RuleDesc    string `json:"rule_desc"`
	LineNumber  int    `json:"line_number"`
	Column      int    `json:"column"`
	OriginalLen int    `json:"original_len"`
	Preview     string `json:"preview"` // first 4 chars only
}

// Summary aggregates redaction statistics.
type Summary struct {
	TotalSecrets     int            `json:"total_secrets"`
	UniqueRules      int            `json:"unique_rules"`
	RuleCounts       map[string]int `json:"rule_counts"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
}

// HasRedactions returns true if any secrets were redacted.
func (a *AuditLog) HasRedactions() bool {
	return len(a.Redactions) > 0
}

// JSON returns the audit log as a compact JSON string.
func (a *AuditLog) JSON() string {
	data, err := json.Marshal(a)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// replaceFindings swaps secrets for markers, working bottom-up through
// the content so earlier indices stay valid.
func replaceFindings(content string, findings []Finding) string {
	sorted := make([]Finding, len(findings))
	copy(sorted, findings)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line > sorted[j].Line
		}
		return sorted[i].StartCol > sorted[j].StartCol
	})

	lines := strings.Split(content, "\n")
	for _, finding := range sorted {
		if finding.Line < 1 || finding.Line > len(lines) {
			continue
		}
		line := lines[finding.Line-1]
		if finding.StartCol < 0 || finding.EndCol > len(line) || finding.StartCol >= finding.EndCol {
			continue
		}
		marker := fmt.Sprintf("[REDACTED:%s:%s]", finding.RuleID, preview(finding.Match, 4))
		lines[finding.Line-1] = line[:finding.StartCol] + marker + line[finding.EndCol:]
	}
	return strings.Join(lines, "\n")
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func buildAuditLog(findings []Finding, elapsed time.Duration) AuditLog {
	redactions := make([]Redaction, 0, len(findings))
	ruleCounts := make(map[string]int)

	for _, f := range findings {
		redactions = append(redactions, Redaction{
			RuleID:      f.RuleID,
			RuleDesc:    f.RuleDesc,
			LineNumber:  f.Line,
			Column:      f.StartCol,
			OriginalLen: len(f.Match),
			Preview:     preview(f.Match, 4),
		})
		ruleCounts[f.RuleID]++
	}

	return AuditLog{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Redactions: redactions,
		Summary: Summary{
			TotalSecrets:     len(findings),
			UniqueRules:      len(ruleCounts),
			RuleCounts:       ruleCounts,
			ProcessingTimeMs: elapsed.Milliseconds(),
		},
	}
}
