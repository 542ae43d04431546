package secrets

import "sort"

// TemplateConfig walks a nested configuration structure and replaces
// every string leaf classified Medium or High with its placeholder. It
// returns a structurally identical copy plus the leaf key names that
// were templated, in visit order. The input is never mutated.
//
// Map entries are visited in sorted key order (Go maps carry no insertion
// order), sequences positionally. When the detector produced no
// placeholder of its own, TemplateValue(key) is used as the fallback.
//
// A nil detector uses the default configuration.
func TemplateConfig(config map[string]any, d *Detector) (map[string]any, []string) {
	if d == nil {
		d = MustNew(nil)
	}

	templatedKeys := make([]string, 0)
	result := templateAny(config, d, &templatedKeys, "").(map[string]any)
	return result, templatedKeys
}

// templateAny recursively processes maps, slices and scalars. The
// dot-joined key path is threaded for future path-sensitive rules but
// does not influence classification yet; sequence elements deliberately
// share their parent's path rather than extending it per index.
func templateAny(obj any, d *Detector, templatedKeys *[]string, currentPath string) any {
	switch v := obj.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for _, key := range sortedKeys(v) {
			value := v[key]
			path := key
			if currentPath != "" {
				path = currentPath + "." + key
			}
			if str, ok := value.(string); ok {
				// Already-templated values stay as they are; without this
				// a secret-bearing key name would re-record its own
				// placeholder on every pass.
				if isPlaceholder(str) {
					result[key] = str
					continue
				}
				detection := d.Detect(str, key)
				if detection.Confidence.IsSecret() {
					if detection.TemplatedValue != "" {
						result[key] = detection.TemplatedValue
					} else {
						result[key] = d.TemplateValue(key)
					}
					*templatedKeys = append(*templatedKeys, key)
				} else {
					result[key] = str
				}
				continue
			}
			result[key] = templateAny(value, d, templatedKeys, path)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = templateAny(item, d, templatedKeys, currentPath)
		}
		return result
	default:
		// Non-string scalars (numbers, booleans, nil) pass through.
		return obj
	}
}

// isPlaceholder reports whether s is a "${NAME}" substitution string.
func isPlaceholder(s string) bool {
	return len(s) > 3 && s[0] == '$' && s[1] == '{' && s[len(s)-1] == '}'
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
