// Package format classifies fetched content as JSON, XML or plain text.
package format

import "strings"

type Format int

const (
	Unknown Format = iota
	JSON
	XML
	Text
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case XML:
		return "xml"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Detect prefers the declared content type and falls back to the URL path
// suffix. Endpoints that match neither are treated as JSON APIs.
func Detect(contentType, urlPath string) Format {
	if f, ok := FromContentType(contentType); ok {
		return f
	}
	if f, ok := FromPath(urlPath); ok {
		return f
	}
	return JSON
}

// FromContentType matches the content type case-insensitively by substring,
// so parameters such as charset are tolerated.
func FromContentType(contentType string) (Format, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		return Unknown, false
	}
	switch {
	case strings.Contains(ct, "application/json"), strings.Contains(ct, "text/json"):
		return JSON, true
	case strings.Contains(ct, "application/xml"), strings.Contains(ct, "text/xml"):
		return XML, true
	case strings.Contains(ct, "text/plain"):
		return Text, true
	}
	return Unknown, false
}

func FromPath(urlPath string) (Format, bool) {
	p := strings.ToLower(strings.TrimSpace(urlPath))
	switch {
	case strings.HasSuffix(p, ".json"):
		return JSON, true
	case strings.HasSuffix(p, ".xml"):
		return XML, true
	case strings.HasSuffix(p, ".txt"):
		return Text, true
	}
	return Unknown, false
}
