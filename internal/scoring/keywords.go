// Package scoring turns normalized weather, news and baseline inputs into
// bounded safety scores. Every function here is pure: no I/O, no logging and
// no mutable package state, so it is safe to call from any goroutine.
package scoring

import "strings"

// keywordRule maps a keyword set to an effect. Rule lists are evaluated in
// declaration order.
type keywordRule[T any] struct {
	keywords []string
	effect   T
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// keywordExclusions lists, per keyword, the longer words that contain it
// but must not count as a match: a "warning" is not a war.
var keywordExclusions = map[string][]string{
	"war": {"warn"},
}

// containsKeyword is a substring match that skips occurrences starting one
// of the keyword's exclusions.
func containsKeyword(text, kw string) bool {
	excluded, ok := keywordExclusions[kw]
	if !ok {
		return strings.Contains(text, kw)
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], kw)
		if i < 0 {
			return false
		}
		start := offset + i
		if !hasAnyPrefix(text[start:], excluded) {
			return true
		}
		offset = start + len(kw)
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if containsKeyword(text, kw) {
			return true
		}
	}
	return false
}

// firstMatch returns the effect of the first rule whose keywords match text.
func firstMatch[T any](text string, rules []keywordRule[T], match func(string, []string) bool, fallback T) T {
	for _, r := range rules {
		if match(text, r.keywords) {
			return r.effect
		}
	}
	return fallback
}

func articleText(title, description string) string {
	return strings.ToLower(title + " " + description)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampScore(v int) int {
	return clamp(v, 0, 100)
}
