package secrets

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Fixed, pre-tested patterns. Compilation cannot fail at runtime.
var (
	versionRe       = regexp.MustCompile(`^v?\d+(\.\d+){0,3}(-[\w.]+)?(\+[\w.]+)?$`)
	apiKeyRe        = regexp.MustCompile(`^[A-Za-z0-9_-]{20,}$`)
	jwtRe           = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)
	base64Re        = regexp.MustCompile(`^[A-Za-z0-9+/=]{16,}$`)
	urlRe           = regexp.MustCompile(`(?i)^https?://`)
	urlCredentialRe = regexp.MustCompile(`(?i)^https?://[^/]+:[^@]+@`)
)

// valueRule is one step of the value-pattern stage. Rules are evaluated
// in the order they appear in valueRules; the first rule that returns
// ok=true decides the classification.
type valueRule struct {
	name string
	eval func(d *Detector, value, keyUpper string) (Result, bool)
}

// valueRules is the ordered value-pattern cascade. Safe shapes come
// first (boolean, numeric, version, short), then high-confidence secret
// shapes (API key, JWT, base64), then URL analysis. Ordering is part of
// the detection contract; do not reorder.
var valueRules = []valueRule{
	{name: "boolean", eval: evalBoolean},
	{name: "numeric", eval: evalNumeric},
	{name: "version", eval: evalVersion},
	{name: "short-value", eval: evalShortValue},
	{name: "api-key", eval: evalAPIKey},
	{name: "jwt", eval: evalJWT},
	{name: "base64-secret", eval: evalBase64Secret},
	{name: "url", eval: evalURL},
}

func evalBoolean(_ *Detector, value, _ string) (Result, bool) {
	switch strings.ToLower(value) {
	case "true", "false", "yes", "no", "1", "0", "on", "off":
		return Result{
			Confidence:    Safe,
			Reason:        "Boolean value",
			OriginalValue: value,
		}, true
	}
	return Result{}, false
}

func evalNumeric(_ *Detector, value, _ string) (Result, bool) {
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return Result{}, false
	}
	return Result{
		Confidence:    Safe,
		Reason:        "Numeric value",
		OriginalValue: value,
	}, true
}

func evalVersion(_ *Detector, value, _ string) (Result, bool) {
	if !versionRe.MatchString(value) {
		return Result{}, false
	}
	return Result{
		Confidence:    Safe,
		Reason:        "Version string",
		OriginalValue: value,
	}, true
}

func evalShortValue(d *Detector, value, _ string) (Result, bool) {
	length := runeLen(value)
	if length >= d.cfg.MinSecretLength {
		return Result{}, false
	}
	return Result{
		Confidence:    Safe,
		Reason:        fmt.Sprintf("Value too short (%d chars < %d)", length, d.cfg.MinSecretLength),
		OriginalValue: value,
	}, true
}

func evalAPIKey(d *Detector, value, keyUpper string) (Result, bool) {
	if !apiKeyRe.MatchString(value) {
		return Result{}, false
	}
	res := Result{
		Confidence:    High,
		Reason:        "Matches API key pattern (20+ alphanumeric characters)",
		OriginalValue: value,
	}
	if keyUpper != "" {
		res.TemplatedValue = d.TemplateValue(keyUpper)
	}
	return res, true
}

func evalJWT(d *Detector, value, keyUpper string) (Result, bool) {
	if !jwtRe.MatchString(value) {
		return Result{}, false
	}
	res := Result{
		Confidence:    High,
		Reason:        "Matches JWT token pattern",
		OriginalValue: value,
	}
	if keyUpper != "" {
		res.TemplatedValue = d.TemplateValue(keyUpper)
	}
	return res, true
}

func evalBase64Secret(d *Detector, value, keyUpper string) (Result, bool) {
	if !looksLikeBase64Secret(value) {
		return Result{}, false
	}
	if ShannonEntropy(value) <= d.cfg.HighEntropyThreshold {
		return Result{}, false
	}
	res := Result{
		Confidence:    High,
		Reason:        "Matches base64 encoded secret pattern with high entropy",
		OriginalValue: value,
	}
	if keyUpper != "" {
		res.TemplatedValue = d.TemplateValue(keyUpper)
	}
	return res, true
}

func evalURL(_ *Detector, value, _ string) (Result, bool) {
	if !urlRe.MatchString(value) {
		return Result{}, false
	}
	if urlCredentialRe.MatchString(value) {
		return Result{
			Confidence:    High,
			Reason:        "URL contains embedded credentials",
			OriginalValue: value,
		}, true
	}
	return Result{
		Confidence:    Safe,
		Reason:        "URL without embedded credentials",
		OriginalValue: value,
	}, true
}

// looksLikeBase64Secret requires base64 charset plus either padding or a
// dominant alphanumeric ratio (>0.9).
func looksLikeBase64Secret(value string) bool {
	if len(value) < 16 || !base64Re.MatchString(value) {
		return false
	}
	if strings.HasSuffix(value, "=") {
		return true
	}
	alnum := 0
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			alnum++
		}
	}
	return float64(alnum)/float64(len(value)) > 0.9
}

func formatEntropyReason(entropy float64) string {
	return fmt.Sprintf("High entropy value (%.2f bits/char)", entropy)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
