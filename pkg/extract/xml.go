package extract

import (
	"strings"

	"github.com/chen-qa/dynamic-choice/pkg/format"
	"github.com/chen-qa/dynamic-choice/pkg/xmlutil"
)

// LocationPath converts a dotted path into an absolute location path:
// root.versions becomes /root/versions. Predicates pass through, so
// root.versions[2] becomes /root/versions[2].
func LocationPath(path string) string {
	return "/" + strings.ReplaceAll(path, ".", "/")
}

// XML selects the first node addressed by path and returns the trimmed text
// of each of its element children, skipping children whose text is blank.
func XML(content, path string) ([]string, error) {
	doc, err := xmlutil.Parse([]byte(content))
	if err != nil {
		return nil, &ParseError{Format: format.XML, Err: err}
	}
	expr, err := xmlutil.Compile(LocationPath(path))
	if err != nil {
		return nil, &ParseError{Format: format.XML, Err: err}
	}
	parent, err := xmlutil.First(doc, expr)
	if err != nil {
		return nil, &ParseError{Format: format.XML, Err: err}
	}
	if parent == nil {
		return nil, ErrInvalidXMLPath
	}
	children := xmlutil.Elements(parent)
	out := make([]string, 0, len(children))
	for _, c := range children {
		v := trim(c.InnerText())
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
