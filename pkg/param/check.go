package param

import (
	"strings"

	"github.com/chen-qa/dynamic-choice/pkg/choices"
	"github.com/chen-qa/dynamic-choice/pkg/resolver"
)

// Check is the outcome of a single field check.
type Check struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func okCheck() Check             { return Check{OK: true} }
func failCheck(msg string) Check { return Check{Message: msg} }

func CheckURL(url string) Check {
	if url == "" {
		return failCheck(ErrEmptyURL.Error())
	}
	return okCheck()
}

func CheckPath(path string) Check {
	if strings.TrimSpace(path) == "" {
		return failCheck(ErrEmptyPath.Error())
	}
	return okCheck()
}

// CheckFilter compiles the pattern the way resolution will. Blank is valid.
func CheckFilter(filter string) Check {
	if _, err := choices.CompileFilter(filter); err != nil {
		return failCheck(resolver.Message(err))
	}
	return okCheck()
}
