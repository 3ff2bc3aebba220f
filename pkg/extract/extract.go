// Package extract turns fetched content and a path expression into the raw,
// ordered option strings of a choice list.
package extract

import (
	"fmt"

	"github.com/chen-qa/dynamic-choice/pkg/format"
)

// Options dispatches to the parser for f.
func Options(f format.Format, content, path string) ([]string, error) {
	switch f {
	case format.JSON:
		return JSON(content, path)
	case format.XML:
		return XML(content, path)
	case format.Text:
		return Text(content), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}
