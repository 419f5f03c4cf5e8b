package verify

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// normalizeText lowercases, trims, collapses whitespace and strips
// punctuation except '.' and '%', then drops the dots too. The same
// normalization is applied to search text and candidates so comparisons line
// up ("Alc./Vol." and "alcvol" normalize identically).
func normalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenize splits normalized text into tokens.
func tokenize(s string) []string {
	return strings.Fields(normalizeText(s))
}

// similarityPercent computes round((maxLen-distance)/maxLen*100) over rune
// counts. Empty input scores 0.
func similarityPercent(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	return math.Round(float64(maxLen-dist) / float64(maxLen) * 100)
}
