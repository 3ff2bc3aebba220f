package choices

import (
	"slices"
	"unicode"
)

// Sort holds seq[0] aside, stable-sorts the rest case-insensitively and puts
// seq[0] back in front. The input is not modified.
func Sort(seq []string) []string {
	if len(seq) <= 1 {
		return append([]string(nil), seq...)
	}
	rest := append([]string(nil), seq[1:]...)
	slices.SortStableFunc(rest, CompareIgnoreCase)
	out := make([]string, 0, len(seq))
	out = append(out, seq[0])
	return append(out, rest...)
}

// CompareIgnoreCase compares a and b rune by rune, folding each differing
// pair through upper and then lower case before comparing code points.
// Shorter strings sort first on a common prefix.
func CompareIgnoreCase(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	n := min(len(ra), len(rb))
	for i := 0; i < n; i++ {
		c1, c2 := ra[i], rb[i]
		if c1 == c2 {
			continue
		}
		c1 = unicode.ToUpper(c1)
		c2 = unicode.ToUpper(c2)
		if c1 == c2 {
			continue
		}
		c1 = unicode.ToLower(c1)
		c2 = unicode.ToLower(c2)
		if c1 != c2 {
			return int(c1) - int(c2)
		}
	}
	return len(ra) - len(rb)
}
