// Package secrets provides heuristic secret detection for configuration
// values and placeholder templating for shareable packages.
//
// Detection runs entirely in memory with no external services. Values are
// classified by an ordered rule cascade: key-name keywords first, then
// value shape patterns, then a Shannon-entropy fallback. The first rule
// that matches wins.
package secrets
