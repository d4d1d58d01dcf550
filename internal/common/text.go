package common

import (
	"strings"
)

// NormalizeText lowercases a string, replaces every run of characters
// outside [a-z0-9] with a single space, and trims leading/trailing
// whitespace. Accented and other non-ASCII letters count as separators.
// Normalizing an already-normalized string returns it unchanged.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSeparator := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if inSeparator && b.Len() > 0 {
				b.WriteByte(' ')
			}
			inSeparator = false
			b.WriteRune(r)
		} else {
			inSeparator = true
		}
	}

	return b.String()
}

// TokenizeText normalizes a string and returns the set of its unique tokens.
func TokenizeText(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(NormalizeText(s)) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

// JaccardSimilarity returns |A∩B| / |A∪B| for two token sets.
// Two empty sets yield 0, not NaN.
func JaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
