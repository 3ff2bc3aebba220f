package param

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type fileDoc struct {
	Parameters []Definition `yaml:"parameters"`
}

// Registry holds the named definitions loaded from a parameters file. The
// whole set is swapped on reload.
type Registry struct {
	mu     sync.RWMutex
	path   string
	byName map[string]Definition
}

func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{}
	if err := r.Replace(defs); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadRegistry reads path. A missing file yields an empty registry; later
// reloads treat it as an error.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{path: path, byName: map[string]Definition{}}
	if err := r.Reload(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return r, nil
}

func (r *Registry) Path() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.path
}

// Reload re-reads the file. On error, including a missing file, the current
// definitions stay in place.
func (r *Registry) Reload() error {
	path := r.Path()
	if strings.TrimSpace(path) == "" {
		return nil
	}
	defs, err := ReadDefinitions(path)
	if err != nil {
		return err
	}
	return r.Replace(defs)
}

// Replace validates defs and swaps them in atomically.
func (r *Registry) Replace(defs []Definition) error {
	next := make(map[string]Definition, len(defs))
	for i, d := range defs {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("parameters[%d] %q: %w", i, d.Name, err)
		}
		d.Kind = d.kind()
		if _, ok := next[d.Name]; ok {
			return fmt.Errorf("parameters[%d]: %w: %q", i, ErrDuplicate, d.Name)
		}
		next[d.Name] = d
	}
	r.mu.Lock()
	r.byName = next
	r.mu.Unlock()
	return nil
}

func (r *Registry) Get(name string) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return d, nil
}

// List returns definitions sorted by name.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	out := make([]Definition, 0, len(r.byName))
	for _, d := range r.byName {
		out = append(out, d)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// ReadDefinitions parses a parameters file without validating entries.
func ReadDefinitions(path string) ([]Definition, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc fileDoc
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Parameters, nil
}
