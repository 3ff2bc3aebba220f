package xmlutil

import (
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Compile parses an XPath expression.
func Compile(expr string) (*xpath.Expr, error) {
	e, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid location path %q: %w", expr, err)
	}
	return e, nil
}

// First returns the first node selected by expr in document order. An
// expression that does not evaluate to a node-set is an error.
func First(doc *xmlquery.Node, expr *xpath.Expr) (n *xmlquery.Node, err error) {
	if doc == nil || expr == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			n, err = nil, fmt.Errorf("evaluate %s: %v", expr, r)
		}
	}()
	return xmlquery.QuerySelector(doc, expr), nil
}

// Elements returns the element children of n, skipping text and comments.
func Elements(n *xmlquery.Node) []*xmlquery.Node {
	if n == nil {
		return nil
	}
	var out []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			out = append(out, c)
		}
	}
	return out
}
