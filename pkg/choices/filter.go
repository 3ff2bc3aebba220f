package choices

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

const matchTimeout = 2 * time.Second

// FilterError reports a filter pattern that does not compile.
type FilterError struct {
	Pattern string
	Err     error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter %q: %v", e.Pattern, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }

// Matcher is a compiled full-string filter.
type Matcher struct {
	pattern string
	re      *regexp2.Regexp
}

// CompileFilter compiles pattern for full-string matching. A blank pattern
// yields a nil Matcher, which accepts everything.
func CompileFilter(pattern string) (*Matcher, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, nil
	}
	re, err := regexp2.Compile(`\A(?:`+pattern+`)\z`, regexp2.None)
	if err != nil {
		return nil, &FilterError{Pattern: pattern, Err: err}
	}
	re.MatchTimeout = matchTimeout
	return &Matcher{pattern: pattern, re: re}, nil
}

// Pattern returns the source pattern.
func (m *Matcher) Pattern() string {
	if m == nil {
		return ""
	}
	return m.pattern
}

// Match reports whether the entire string s matches. A match that exceeds
// the timeout counts as no match.
func (m *Matcher) Match(s string) bool {
	if m == nil {
		return true
	}
	ok, err := m.re.MatchString(s)
	if err != nil {
		return false
	}
	return ok
}

// Filter narrows seq with pattern. seq[0] is the sentinel and is always kept;
// every other element is kept only when it is non-empty and matches in full.
// Order is preserved. A blank pattern returns seq unchanged.
func Filter(seq []string, pattern string) ([]string, error) {
	m, err := CompileFilter(pattern)
	if err != nil {
		return nil, err
	}
	return m.Apply(seq), nil
}

// Apply is Filter with an already compiled matcher.
func (m *Matcher) Apply(seq []string) []string {
	if m == nil {
		return seq
	}
	out := make([]string, 0, len(seq)+1)
	out = append(out, Sentinel)
	if len(seq) == 0 {
		return out
	}
	for _, opt := range seq[1:] {
		if opt == "" || !m.Match(opt) {
			continue
		}
		out = append(out, opt)
	}
	return out
}
