// Package choices holds the externally visible result of a choice resolution
// and the filter/sort stages that shape it.
//
// The boundary form of a successful result is a sequence whose first element
// is the empty-string sentinel ("no selection") followed by the sorted
// options. A failed result is a sequence of exactly one message and never
// carries the sentinel.
package choices

import (
	"encoding/json"
	"strings"
)

// Sentinel is the "no selection" entry presented first in every successful list.
const Sentinel = ""

const fallbackErrMessage = "错误: 未知错误"

// ChoiceList is either Ok(sequence) or Err(message). The zero value is an Ok
// list holding only the sentinel.
type ChoiceList struct {
	items  []string
	failed bool
}

// Ok builds a successful list. seq is expected to start with the sentinel;
// when it does not, the sentinel is prepended.
func Ok(seq []string) ChoiceList {
	items := make([]string, 0, len(seq)+1)
	if len(seq) == 0 || seq[0] != Sentinel {
		items = append(items, Sentinel)
	}
	items = append(items, seq...)
	return ChoiceList{items: items}
}

// Err builds a failed list carrying a single human-readable message.
func Err(msg string) ChoiceList {
	if strings.TrimSpace(msg) == "" {
		msg = fallbackErrMessage
	}
	return ChoiceList{items: []string{msg}, failed: true}
}

// IsErr reports whether the list is the single-message error form.
func (l ChoiceList) IsErr() bool { return l.failed }

// Message returns the error message of a failed list, or "" for Ok.
func (l ChoiceList) Message() string {
	if !l.failed {
		return ""
	}
	return l.items[0]
}

// Strings returns the boundary sequence. It is never empty.
func (l ChoiceList) Strings() []string {
	if len(l.items) == 0 {
		return []string{Sentinel}
	}
	return append([]string(nil), l.items...)
}

// Options returns the selectable options without the sentinel. Failed lists
// have no options.
func (l ChoiceList) Options() []string {
	if l.failed || len(l.items) <= 1 {
		return nil
	}
	return append([]string(nil), l.items[1:]...)
}

// Contains reports whether v is a selectable option of an Ok list. The
// sentinel is always selectable.
func (l ChoiceList) Contains(v string) bool {
	if l.failed {
		return false
	}
	if v == Sentinel {
		return true
	}
	for _, it := range l.Options() {
		if it == v {
			return true
		}
	}
	return false
}

func (l ChoiceList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Strings())
}

// Selection is the chosen value of a parameter. The empty-string convention
// is only applied when the selection leaves the process (EnvString).
type Selection struct {
	value string
	set   bool
}

// None is the absence of a selection.
func None() Selection { return Selection{} }

// Some selects v. Choosing the sentinel is the same as choosing nothing.
func Some(v string) Selection {
	if v == Sentinel {
		return None()
	}
	return Selection{value: v, set: true}
}

// Get returns the selected value and whether one is set.
func (s Selection) Get() (string, bool) { return s.value, s.set }

// IsSet reports whether a non-sentinel value was chosen.
func (s Selection) IsSet() bool { return s.set }

// EnvString serializes the selection with the empty-string convention.
func (s Selection) EnvString() string {
	if !s.set {
		return Sentinel
	}
	return s.value
}

func (s Selection) String() string {
	if !s.set {
		return "<none>"
	}
	return s.value
}
