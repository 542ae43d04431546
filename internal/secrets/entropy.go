package secrets

import "math"

// ShannonEntropy returns the entropy of s in bits per character, computed
// over the empirical character-frequency distribution. The empty string
// has entropy 0.
func ShannonEntropy(s string) float64 {
	if s == "" {
		return 0.0
	}

	counts := make(map[rune]int)
	length := 0
	for _, r := range s {
		counts[r]++
		length++
	}

	entropy := 0.0
	for _, count := range counts {
		p := float64(count) / float64(length)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
