package secrets

import (
	"strings"
)

// Detector classifies configuration values as safe or secret. It holds no
// mutable state: Detect is a pure function of its inputs and the
// configuration, so a single instance is safe for concurrent use.
type Detector struct {
	cfg Config
}

// New creates a Detector. A nil config uses DefaultConfig. Keyword lists
// are copied so later mutation of the caller's config has no effect.
func New(cfg *Config) (*Detector, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Detector{cfg: *cfg}
	d.cfg.SecretKeywords = append([]string(nil), cfg.SecretKeywords...)
	d.cfg.SafeKeywords = append([]string(nil), cfg.SafeKeywords...)
	d.cfg.AmbiguousKeywords = append([]string(nil), cfg.AmbiguousKeywords...)
	return d, nil
}

// MustNew creates a Detector, panicking on invalid config.
func MustNew(cfg *Config) *Detector {
	d, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return d
}

// Detect analyzes a value, optionally with its associated key name
// (e.g. "API_KEY" or "database_url"). Evaluation order is fixed:
// empty check, key-name keywords, value shape patterns, entropy
// fallback. The first matching rule wins.
func (d *Detector) Detect(value, keyName string) Result {
	if strings.TrimSpace(value) == "" {
		return Result{
			Confidence:    Safe,
			Reason:        "Empty or whitespace-only value",
			OriginalValue: value,
		}
	}

	keyUpper := strings.ToUpper(keyName)

	if res, ok := d.keywordMatch(keyUpper, value); ok {
		return res
	}

	for _, rule := range valueRules {
		if res, ok := rule.eval(d, value, keyUpper); ok {
			return res
		}
	}

	if res, ok := d.entropyFallback(value, keyUpper); ok {
		return res
	}

	return Result{
		Confidence:    Safe,
		Reason:        "No secret indicators detected",
		OriginalValue: value,
	}
}

// TemplateValue converts a key name into a placeholder: uppercase,
// dashes to underscores, wrapped as "${NAME}". Already-"$"-prefixed
// input is returned unchanged, so the operation is idempotent.
func (d *Detector) TemplateValue(key string) string {
	normalized := strings.ReplaceAll(strings.ToUpper(key), "-", "_")
	if strings.HasPrefix(normalized, "$") {
		return normalized
	}
	return "${" + normalized + "}"
}

// Config returns a copy of the detector's configuration.
func (d *Detector) Config() Config {
	cfg := d.cfg
	cfg.SecretKeywords = append([]string(nil), d.cfg.SecretKeywords...)
	cfg.SafeKeywords = append([]string(nil), d.cfg.SafeKeywords...)
	cfg.AmbiguousKeywords = append([]string(nil), d.cfg.AmbiguousKeywords...)
	return cfg
}

// keywordMatch classifies by key name. Safe keywords are matched as whole
// underscore-delimited tokens so that DEBUG_MODE stays safe while
// API_DEBUG_TOKEN is still caught by its secret-keyword substring. Secret
// keywords match anywhere in the key and take priority over ambiguous
// handling. Ambiguous keywords need secondary evidence; without it
// control falls through to value analysis.
func (d *Detector) keywordMatch(keyUpper, value string) (Result, bool) {
	if keyUpper == "" {
		return Result{}, false
	}

	for _, safeKw := range d.cfg.SafeKeywords {
		if !strings.Contains(keyUpper, safeKw) {
			continue
		}
		parts := strings.Split(keyUpper, "_")
		if !containsToken(parts, safeKw) {
			continue
		}
		if d.onlySafeTokens(parts) {
			return Result{
				Confidence:    Safe,
				Reason:        "Key contains safe keyword '" + safeKw + "'",
				OriginalValue: value,
			}, true
		}
	}

	for _, secretKw := range d.cfg.SecretKeywords {
		if strings.Contains(keyUpper, secretKw) {
			return Result{
				Confidence:     High,
				Reason:         "Key contains secret keyword '" + secretKw + "'",
				OriginalValue:  value,
				TemplatedValue: d.TemplateValue(keyUpper),
			}, true
		}
	}

	for _, ambigKw := range d.cfg.AmbiguousKeywords {
		if !strings.Contains(keyUpper, ambigKw) {
			continue
		}
		if urlCredentialRe.MatchString(value) {
			return Result{
				Confidence:     High,
				Reason:         "Key contains '" + ambigKw + "' with embedded credentials",
				OriginalValue:  value,
				TemplatedValue: d.TemplateValue(keyUpper),
			}, true
		}
		if ShannonEntropy(value) > d.cfg.HighEntropyThreshold {
			return Result{
				Confidence:     Medium,
				Reason:         "Key contains '" + ambigKw + "' with high entropy value",
				OriginalValue:  value,
				TemplatedValue: d.TemplateValue(keyUpper),
			}, true
		}
		// Ambiguous keyword without supporting evidence: fall through to
		// value-pattern analysis instead of returning here.
	}

	return Result{}, false
}

// onlySafeTokens reports whether no token of the split key carries a
// secret-keyword substring (safe-list tokens themselves are exempt).
func (d *Detector) onlySafeTokens(parts []string) bool {
	for _, part := range parts {
		if part == "" || containsToken(d.cfg.SafeKeywords, part) {
			continue
		}
		for _, secretKw := range d.cfg.SecretKeywords {
			if strings.Contains(part, secretKw) {
				return false
			}
		}
	}
	return true
}

// entropyFallback flags long high-entropy values as medium confidence.
func (d *Detector) entropyFallback(value, keyUpper string) (Result, bool) {
	if runeLen(value) < d.cfg.MinSecretLength {
		return Result{}, false
	}

	entropy := ShannonEntropy(value)
	if entropy <= d.cfg.HighEntropyThreshold {
		return Result{}, false
	}

	res := Result{
		Confidence:    Medium,
		Reason:        formatEntropyReason(entropy),
		OriginalValue: value,
	}
	if keyUpper != "" {
		res.TemplatedValue = d.TemplateValue(keyUpper)
	}
	return res, true
}

func containsToken(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
