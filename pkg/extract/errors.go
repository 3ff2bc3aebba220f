package extract

import (
	"errors"

	"github.com/chen-qa/dynamic-choice/pkg/format"
)

var (
	// ErrNotAList means a simple path did not resolve to an array. A missing
	// key anywhere along the path ends up here too.
	ErrNotAList = errors.New("json path does not point to a list")
	// ErrNotAnArray means the array part of an extraction path did not
	// resolve to an array.
	ErrNotAnArray = errors.New("array path does not point to an array")
	// ErrInvalidArraySyntax means an extraction path did not split into a
	// non-empty array path and field name.
	ErrInvalidArraySyntax = errors.New("invalid array field extraction syntax")
	// ErrInvalidXMLPath means the location path matched no element.
	ErrInvalidXMLPath = errors.New("xml path matched no element")
	// ErrUnsupportedFormat means no parser handles the detected format.
	ErrUnsupportedFormat = errors.New("unsupported content type")
)

// ParseError wraps a failure to build or query a document.
type ParseError struct {
	Format format.Format
	Err    error
}

func (e *ParseError) Error() string {
	return "parse " + e.Format.String() + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
