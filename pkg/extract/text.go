package extract

import "strings"

// Text returns every non-blank line, trimmed.
func Text(content string) []string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = trim(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// trim strips leading and trailing ASCII control characters and spaces
// (code points up to U+0020). Other Unicode spaces such as U+00A0 are kept.
func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}
