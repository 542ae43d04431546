package secrets

import "fmt"

// Default thresholds for the detector.
const (
	DefaultHighEntropyThreshold = 4.5
	DefaultMinSecretLength      = 8
)

// Config tunes the detector. The zero value is not usable; start from
// DefaultConfig or let New fill in defaults via Validate.
type Config struct {
	// HighEntropyThreshold is the Shannon entropy (bits/char) above which
	// a value is considered suspicious (default: 4.5).
	HighEntropyThreshold float64 `koanf:"high_entropy_threshold"`

	// MinSecretLength is the minimum value length for pattern and entropy
	// analysis; shorter values classify as safe (default: 8).
	MinSecretLength int `koanf:"min_secret_length"`

	// SecretKeywords mark a key name as secret-bearing when they appear
	// anywhere in the uppercased key (substring match).
	SecretKeywords []string `koanf:"secret_keywords"`

	// SafeKeywords mark a key name as harmless when they appear as a
	// whole underscore-delimited token of the uppercased key.
	SafeKeywords []string `koanf:"safe_keywords"`

	// AmbiguousKeywords require secondary evidence (embedded credentials
	// or high entropy) before the value is classified.
	AmbiguousKeywords []string `koanf:"ambiguous_keywords"`
}

// DefaultSecretKeywords returns the default secret keyword list.
func DefaultSecretKeywords() []string {
	return []string{
		"TOKEN",
		"KEY",
		"SECRET",
		"PASSWORD",
		"PASSWD",
		"CREDENTIAL",
		"AUTH",
		"PRIVATE",
		"API",
	}
}

// DefaultSafeKeywords returns the default safe keyword list.
func DefaultSafeKeywords() []string {
	return []string{
		"PATH",
		"DIR",
		"NAME",
		"TYPE",
		"MODE",
		"DEBUG",
		"LEVEL",
		"HOST",
		"PORT",
		"VERSION",
		"ENABLED",
		"DISABLED",
	}
}

// DefaultAmbiguousKeywords returns the default ambiguous keyword list.
func DefaultAmbiguousKeywords() []string {
	return []string{"URL", "ID", "ENDPOINT", "URI"}
}

// DefaultConfig returns a configuration with the standard thresholds and
// keyword lists.
func DefaultConfig() *Config {
	return &Config{
		HighEntropyThreshold: DefaultHighEntropyThreshold,
		MinSecretLength:      DefaultMinSecretLength,
		SecretKeywords:       DefaultSecretKeywords(),
		SafeKeywords:         DefaultSafeKeywords(),
		AmbiguousKeywords:    DefaultAmbiguousKeywords(),
	}
}

// Validate checks thresholds and fills empty keyword lists from defaults.
func (c *Config) Validate() error {
	if c.HighEntropyThreshold == 0 {
		c.HighEntropyThreshold = DefaultHighEntropyThreshold
	}
	if c.HighEntropyThreshold < 0 {
		return fmt.Errorf("high_entropy_threshold must be positive, got %v", c.HighEntropyThreshold)
	}
	if c.MinSecretLength == 0 {
		c.MinSecretLength = DefaultMinSecretLength
	}
	if c.MinSecretLength < 1 {
		return fmt.Errorf("min_secret_length must be at least 1, got %d", c.MinSecretLength)
	}
	if len(c.SecretKeywords) == 0 {
		c.SecretKeywords = DefaultSecretKeywords()
	}
	if len(c.SafeKeywords) == 0 {
		c.SafeKeywords = DefaultSafeKeywords()
	}
	if len(c.AmbiguousKeywords) == 0 {
		c.AmbiguousKeywords = DefaultAmbiguousKeywords()
	}
	return nil
}
