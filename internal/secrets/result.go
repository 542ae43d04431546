package secrets

// Confidence is the classification of a value, ordered by suspicion level.
type Confidence int

const (
	// Safe means the value shows no secret indicators.
	Safe Confidence = iota

	// Medium means circumstantial evidence only (e.g. high entropy).
	Medium

	// High means a strong secret signal fired (keyword or known pattern).
	High
)

// String returns the lowercase name of the confidence level.
func (c Confidence) String() string {
	switch c {
	case Safe:
		return "safe"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// IsSecret reports whether the classification warrants templating.
func (c Confidence) IsSecret() bool {
	return c == Medium || c == High
}

// Result is the outcome of analyzing a single value.
type Result struct {
	// Confidence is the classification level.
	Confidence Confidence

	// Reason explains which rule fired. Always non-empty. The wording is
	// human-readable and not guaranteed stable across versions.
	Reason string

	// OriginalValue is the exact input, unmodified.
	OriginalValue string

	// TemplatedValue is the suggested placeholder (e.g. "${API_KEY}").
	// Empty when no key name was available to derive one from.
	TemplatedValue string
}
