package controller

import "sort"

// inputs is a form map that has passed schema validation, so type assertions
// only fail for absent optional fields.
type inputs map[string]any

func (in inputs) str(key string) string {
	s, _ := in[key].(string)
	return s
}

func (in inputs) optStr(key string) (string, bool) {
	s, ok := in[key].(string)
	return s, ok
}

func (in inputs) num(key string) float64 {
	switch v := in[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func (in inputs) list(key string) []string {
	switch v := in[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
