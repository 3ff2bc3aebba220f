// Package xmlutil parses untrusted XML into an xmlquery tree and evaluates
// XPath location paths such as /root/versions against it.
//
// Parsing is hardened: DOCTYPE declarations are rejected before the tree is
// built, so no internal or external entity can be declared, and only the
// predefined XML entities and character references are expanded.
package xmlutil

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
)

var ErrDoctypeDisallowed = errors.New("DOCTYPE is disallowed")

// Parse reads one XML document and returns its document node. The input is
// expected to be UTF-8 already; a declared encoding is accepted but not
// re-decoded.
func Parse(data []byte) (*xmlquery.Node, error) {
	body, err := precheck(data)
	if err != nil {
		return nil, err
	}
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// precheck scans the raw tokens once. It rejects DOCTYPE and anything that is
// not a single well-formed root element, and returns the input with the XML
// declaration cut off.
func precheck(data []byte) ([]byte, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = true
	d.CharsetReader = func(_ string, in io.Reader) (io.Reader, error) { return in, nil }

	var (
		stack    []string
		rootSeen bool
		bodyFrom int64
	)
	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				if rootSeen {
					return nil, fmt.Errorf("xml: line %d: multiple root elements", inputLine(d))
				}
				rootSeen = true
			}
			stack = append(stack, qualifiedName(t.Name))
		case xml.EndElement:
			name := qualifiedName(t.Name)
			if len(stack) == 0 {
				return nil, fmt.Errorf("xml: line %d: unexpected end element </%s>", inputLine(d), name)
			}
			if top := stack[len(stack)-1]; top != name {
				return nil, fmt.Errorf("xml: line %d: element <%s> closed by </%s>", inputLine(d), top, name)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("xml: line %d: character data outside root element", inputLine(d))
			}
		case xml.ProcInst:
			if t.Target == "xml" && !rootSeen {
				bodyFrom = d.InputOffset()
			}
		case xml.Directive:
			if isDoctype(t) {
				return nil, fmt.Errorf("xml: line %d: %w", inputLine(d), ErrDoctypeDisallowed)
			}
			return nil, fmt.Errorf("xml: line %d: unsupported declaration <!%s>", inputLine(d), firstWord(t))
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("xml: unexpected EOF: element <%s> not closed", stack[len(stack)-1])
	}
	if !rootSeen {
		return nil, errors.New("xml: no root element")
	}
	return data[bodyFrom:], nil
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func isDoctype(d xml.Directive) bool {
	return strings.EqualFold(firstWord(d), "DOCTYPE")
}

func firstWord(d xml.Directive) string {
	s := strings.TrimSpace(string(d))
	if i := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '[' }); i >= 0 {
		s = s[:i]
	}
	return s
}

func inputLine(d *xml.Decoder) int {
	line, _ := d.InputPos()
	return line
}
