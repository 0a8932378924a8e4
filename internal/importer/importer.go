// Package importer finds a format's source files, turns their bytes into raw
// rows and hands them to the pipeline.
package importer

import (
	"errors"
	"sort"
	"strings"

	"github.com/bank2ynab/bank2ynab/internal/config"
)

// ErrUnknownPreprocessor is returned when a format names a preprocessor that
// is not registered.
var ErrUnknownPreprocessor = errors.New("unknown preprocessor")

// Preprocessor rewrites a source file's content before it is split into rows.
type Preprocessor interface {
	Process(data []byte, spec config.FormatSpec) ([]byte, error)
	Name() string
}

// binaryInput is implemented by preprocessors that need the undecoded file
// bytes. Their output must be UTF-8.
type binaryInput interface {
	Binary() bool
}

func isBinary(p Preprocessor) bool {
	b, ok := p.(binaryInput)
	return ok && b.Binary()
}

// Registry holds named preprocessors.
type Registry struct {
	preprocessors map[string]Preprocessor
}

// NewRegistry creates an empty preprocessor registry.
func NewRegistry() *Registry {
	return &Registry{preprocessors: make(map[string]Preprocessor)}
}

// Register adds a preprocessor. Panics on duplicate name.
func (r *Registry) Register(p Preprocessor) {
	key := strings.ToLower(p.Name())
	if _, ok := r.preprocessors[key]; ok {
		panic("duplicate preprocessor: " + key)
	}
	r.preprocessors[key] = p
}

// Get returns the preprocessor for name, or nil.
func (r *Registry) Get(name string) Preprocessor {
	return r.preprocessors[strings.ToLower(strings.TrimSpace(name))]
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.preprocessors))
	for k := range r.preprocessors {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in preprocessors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&FixLineBreaks{})
	r.Register(&StripHTML{})
	r.Register(&ParseFromMemo{})
	r.Register(&XLSX{})
	return r
}
