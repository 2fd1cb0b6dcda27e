package provider

import (
	"strconv"
	"strings"
)

// Providers nest the same value differently across API versions, so
// every extraction is an ordered list of candidate paths tried by
// decreasing specificity. A path is dot-separated keys into the
// decoded JSON document; the first candidate that resolves to a
// non-empty value wins.

func probeString(doc map[string]any, paths ...string) string {
	for _, path := range paths {
		if v, ok := lookup(doc, path); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func probeNumber(doc map[string]any, paths ...string) (float64, bool) {
	for _, path := range paths {
		v, ok := lookup(doc, path)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func lookup(doc map[string]any, path string) (any, bool) {
	keys := strings.Split(path, ".")
	var current any = doc

	for _, key := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
