package logx

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

type formatPart struct {
	literal string
	varName string
}

// AccessLogFormatter renders an access log template such as
// "$method $path $status".
type AccessLogFormatter struct {
	parts []formatPart
}

var accessLogFormatPresets = map[string]string{
	"dc_combined": "$time_local | $status | $latency | $client_ip | $method $path | request_id=$request_id parameter=$parameter outcome=$outcome choices=$choices",
	"dc_minimal":  "$time_local | $status | $method $path | request_id=$request_id outcome=$outcome",
}

var allowedAccessLogVars = map[string]struct{}{
	"time_local": {},
	"status":     {},
	"latency":    {},
	"latency_ms": {},
	"client_ip":  {},
	"method":     {},
	"path":       {},
	"request_id": {},
	"parameter":  {},
	"outcome":    {},
	"choices":    {},
}

// ResolveAccessLogFormat prefers an explicit format over a preset name.
func ResolveAccessLogFormat(format string, preset string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}
	p := strings.ToLower(strings.TrimSpace(preset))
	if p == "" {
		return "", nil
	}
	out, ok := accessLogFormatPresets[p]
	if !ok {
		return "", fmt.Errorf("invalid access_log_format_preset: %q", preset)
	}
	return out, nil
}

// CompileAccessLogFormat returns nil for a blank format. "$$" is a literal
// dollar sign.
func CompileAccessLogFormat(format string) (*AccessLogFormatter, error) {
	if strings.TrimSpace(format) == "" {
		return nil, nil
	}
	var (
		parts []formatPart
		lit   strings.Builder
	)
	flushLiteral := func() {
		if lit.Len() == 0 {
			return
		}
		parts = append(parts, formatPart{literal: lit.String()})
		lit.Reset()
	}
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '$' {
			lit.WriteByte(ch)
			continue
		}
		if i+1 < len(format) && format[i+1] == '$' {
			lit.WriteByte('$')
			i++
			continue
		}
		flushLiteral()
		j := i + 1
		for j < len(format) && isVarByte(format[j]) {
			j++
		}
		if j == i+1 {
			return nil, fmt.Errorf("invalid access_log_format: missing variable name after '$' at pos %d", i)
		}
		name := format[i+1 : j]
		if _, ok := allowedAccessLogVars[name]; !ok {
			return nil, fmt.Errorf("invalid access_log_format: unknown variable $%s", name)
		}
		parts = append(parts, formatPart{varName: name})
		i = j - 1
	}
	flushLiteral()
	return &AccessLogFormatter{parts: parts}, nil
}

func isVarByte(b byte) bool {
	r := rune(b)
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Format renders one line. Missing variables print as "-".
func (f *AccessLogFormatter) Format(e AccessEntry, color bool) string {
	if f == nil || len(f.parts) == 0 {
		return ""
	}
	vars := e.vars(color)
	var b strings.Builder
	for _, p := range f.parts {
		if p.literal != "" {
			b.WriteString(p.literal)
			continue
		}
		v := strings.TrimSpace(vars[p.varName])
		if v == "" {
			b.WriteByte('-')
			continue
		}
		b.WriteString(v)
	}
	return b.String()
}

func AccessLogAllowedVars() []string {
	keys := make([]string, 0, len(allowedAccessLogVars))
	for k := range allowedAccessLogVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AccessEntry is one served request.
type AccessEntry struct {
	Time      time.Time
	Status    int
	Latency   time.Duration
	ClientIP  string
	Method    string
	Path      string
	RequestID string
	Parameter string
	Outcome   string
	// Choices is the number of selectable options, or -1 when unknown.
	Choices int
}

func (e AccessEntry) vars(color bool) map[string]string {
	out := map[string]string{
		"time_local": e.Time.Format("2006/01/02 - 15:04:05"),
		"status":     ColorizeStatusWith(e.Status, color),
		"latency":    e.Latency.String(),
		"latency_ms": strconv.FormatInt(e.Latency.Milliseconds(), 10),
		"client_ip":  strings.TrimSpace(e.ClientIP),
		"method":     strings.TrimSpace(e.Method),
		"path":       e.Path,
		"request_id": e.RequestID,
		"parameter":  e.Parameter,
		"outcome":    e.Outcome,
	}
	if e.Choices >= 0 {
		out["choices"] = strconv.Itoa(e.Choices)
	}
	return out
}

// FormatRequestLineWithColor is the default line when no template is set.
func FormatRequestLineWithColor(e AccessEntry, color bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s | %13v | %15s | %-7s %s",
		e.Time.Format("2006/01/02 - 15:04:05"),
		ColorizeStatusWith(e.Status, color),
		e.Latency,
		e.ClientIP,
		e.Method,
		e.Path,
	)
	if e.RequestID != "" {
		b.WriteString(" | request_id=" + e.RequestID)
	}
	if e.Parameter != "" {
		b.WriteString(" parameter=" + e.Parameter)
	}
	if e.Outcome != "" {
		b.WriteString(" outcome=" + e.Outcome)
	}
	if e.Choices >= 0 {
		b.WriteString(" choices=" + strconv.Itoa(e.Choices))
	}
	return b.String()
}

func ColorizeStatusWith(status int, color bool) string {
	s := strconv.Itoa(status)
	if !color {
		return s
	}
	code := "32"
	switch {
	case status >= 500:
		code = "31"
	case status >= 400:
		code = "33"
	case status >= 300:
		code = "36"
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
