// Package param is the host side of a dynamic choice parameter: its
// definition, the value a user picks, and how that value reaches a job's
// environment.
package param

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/chen-qa/dynamic-choice/pkg/choices"
	"github.com/chen-qa/dynamic-choice/pkg/resolver"
)

var (
	ErrEmptyURL    = errors.New("URL 不能为空")
	ErrEmptyPath   = errors.New("JSON 路径不能为空")
	ErrEmptyName   = errors.New("parameter name is empty")
	ErrDuplicate   = errors.New("duplicate parameter name")
	ErrUnknownKind = errors.New("unknown parameter type")
	ErrNotFound    = errors.New("parameter not found")
)

// Definition configures one parameter. JSONPath is used for XML sources as
// well.
type Definition struct {
	Kind        string `yaml:"type" json:"type"`
	Name        string `yaml:"name" json:"name"`
	URL         string `yaml:"url" json:"url"`
	JSONPath    string `yaml:"json_path" json:"json_path"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Filter      string `yaml:"filter,omitempty" json:"filter,omitempty"`
}

func NewDefinition(name, url, jsonPath, description, filter string) (Definition, error) {
	d := Definition{
		Kind:        KindDynamicChoiceURL,
		Name:        name,
		URL:         url,
		JSONPath:    jsonPath,
		Description: description,
		Filter:      filter,
	}
	if err := d.Validate(); err != nil {
		return Definition{}, err
	}
	return d, nil
}

func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(d.URL) == "" {
		return ErrEmptyURL
	}
	if strings.TrimSpace(d.JSONPath) == "" {
		return ErrEmptyPath
	}
	if _, ok := LookupKind(d.kind()); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}
	return nil
}

func (d Definition) kind() string {
	if strings.TrimSpace(d.Kind) == "" {
		return KindDynamicChoiceURL
	}
	return strings.TrimSpace(d.Kind)
}

// Query is the resolution request for this definition.
func (d Definition) Query() (resolver.Query, error) {
	return resolver.NewQuery(d.URL, d.JSONPath, d.Filter)
}

// ValueFromForm binds the first "value" form field. A missing or empty field
// yields the default value.
func (d Definition) ValueFromForm(form url.Values) Value {
	vs := form["value"]
	if len(vs) == 0 || vs[0] == "" {
		return d.DefaultValue()
	}
	return d.newValue(choices.Some(vs[0]))
}

// ValueFromJSON binds a submitted {"name": ..., "value": ...} object. The
// value is optional; null and "" both mean no selection.
func (d Definition) ValueFromJSON(data []byte) (Value, error) {
	var in struct {
		Name  string  `json:"name"`
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return Value{}, fmt.Errorf("bind %s: %w", d.Name, err)
	}
	if in.Name != "" && in.Name != d.Name {
		return Value{}, fmt.Errorf("bind %s: submitted name %q does not match", d.Name, in.Name)
	}
	if in.Value == nil {
		return d.DefaultValue(), nil
	}
	return d.newValue(choices.Some(*in.Value)), nil
}

// DefaultValue carries no selection.
func (d Definition) DefaultValue() Value {
	return d.newValue(choices.None())
}

// ValueOf wraps an already chosen string.
func (d Definition) ValueOf(v string) Value {
	return d.newValue(choices.Some(v))
}

func (d Definition) newValue(sel choices.Selection) Value {
	return Value{Name: d.Name, Description: d.Description, Selection: sel}
}

// Value is a bound parameter value.
type Value struct {
	Name        string
	Description string
	Selection   choices.Selection
}

// BuildEnvironment exports the value under the parameter name. No selection
// is exported as the empty string.
func (v Value) BuildEnvironment(env map[string]string) {
	if env == nil {
		return
	}
	env[v.Name] = v.Selection.EnvString()
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string `json:"name"`
		Value       string `json:"value"`
		Description string `json:"description,omitempty"`
	}{v.Name, v.Selection.EnvString(), v.Description})
}

func (v Value) String() string {
	return "DynamicChoiceUrlParameterValue: " + v.Name + "=" + v.Selection.EnvString()
}
