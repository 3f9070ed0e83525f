// Package render formats extracted contact records for output.
package render

import (
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"

	"github.com/smileynet/drills/internal/contact"
)

// Renderer writes a sequence of records to w.
type Renderer interface {
	Render(w io.Writer, recs iter.Seq[contact.Record]) error
}

// Options carries per-format settings.
type Options struct {
	Template string // Used by the "template" format
}

// Factory creates a renderer.
type Factory func(opts Options) (Renderer, error)

// Registry maps format names to factory functions.
// It is not safe for concurrent use; registration should happen at startup.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a Registry with every built-in format registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("text", func(Options) (Renderer, error) { return Text{}, nil })
	r.Register("template", func(o Options) (Renderer, error) { return NewTemplate(o.Template) })
	r.Register("json", func(Options) (Renderer, error) { return JSON{}, nil })
	r.Register("yaml", func(Options) (Renderer, error) { return YAML{}, nil })
	r.Register("table", func(Options) (Renderer, error) { return Table{}, nil })
	return r
}

// Register adds a named format factory. Overwrites if name already exists.
// Panics if name is empty or f is nil (programmer error).
func (r *Registry) Register(name string, f Factory) {
	if name == "" {
		panic("render: Register called with empty name")
	}
	if f == nil {
		panic("render: Register called with nil factory")
	}
	r.factories[name] = f
}

// New instantiates a renderer by format name.
// Returns an error if the name is not registered or the factory fails.
func (r *Registry) New(name string, opts Options) (Renderer, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, &UnknownFormatError{
			Name:      name,
			Available: r.Available(),
		}
	}
	rd, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("render: format %q: %w", name, err)
	}
	return rd, nil
}

// Available returns registered format names in sorted order.
func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownFormatError indicates a format name is not registered.
type UnknownFormatError struct {
	Name      string
	Available []string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown format %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}
