package extract

import (
	"strings"

	"github.com/chen-qa/dynamic-choice/pkg/format"
	"github.com/chen-qa/dynamic-choice/pkg/jsonutil"
)

const arrayFieldSep = "[]."

// JSON resolves path against a JSON document.
//
// A plain dotted path must end at an array; each element becomes one option
// (null as ""). A path of the form items[].field must end at an array of
// objects and yields the field of every object that has it.
func JSON(content, path string) ([]string, error) {
	root, err := jsonutil.Parse([]byte(content))
	if err != nil {
		return nil, &ParseError{Format: format.JSON, Err: err}
	}
	if strings.Contains(path, arrayFieldSep) {
		return extractArrayField(root, path)
	}
	v, ok := jsonutil.Walk(root, path)
	if !ok || v.Kind() != jsonutil.Array {
		return nil, ErrNotAList
	}
	items := v.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text())
	}
	return out, nil
}

func extractArrayField(root jsonutil.Node, path string) ([]string, error) {
	arrayPath, field, _ := strings.Cut(path, arrayFieldSep)
	if arrayPath == "" || field == "" {
		return nil, ErrInvalidArraySyntax
	}
	arr, ok := jsonutil.Walk(root, arrayPath)
	if !ok || arr.Kind() != jsonutil.Array {
		return nil, ErrNotAnArray
	}
	out := make([]string, 0, len(arr.Items()))
	for _, it := range arr.Items() {
		v, ok := it.Get(field)
		if !ok {
			continue
		}
		out = append(out, v.Text())
	}
	return out, nil
}
