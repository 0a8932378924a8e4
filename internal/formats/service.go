package formats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bank2ynab/bank2ynab/internal/config"
)

// Service provides case-insensitive lookup over the configured bank formats.
// Every format it returns already has the config defaults merged in.
type Service struct {
	formats []config.FormatSpec
	byName  map[string]config.FormatSpec
}

// NewService creates a Service from a slice of formats and the defaults that
// fill their zero fields.
func NewService(formats []config.FormatSpec, defaults config.FormatSpec) *Service {
	merged := make([]config.FormatSpec, 0, len(formats))
	byName := make(map[string]config.FormatSpec, len(formats))
	for _, f := range formats {
		m := f.Merge(defaults)
		merged = append(merged, m)
		byName[key(m.Name)] = m
	}
	return &Service{formats: merged, byName: byName}
}

// FromConfig creates a Service from a loaded config file.
func FromConfig(cfg *config.Config) *Service {
	return NewService(cfg.Formats, cfg.Defaults)
}

// All returns all formats in config order.
func (s *Service) All() []config.FormatSpec {
	return s.formats
}

// Get returns a format by name.
func (s *Service) Get(name string) (config.FormatSpec, bool) {
	f, ok := s.byName[key(name)]
	return f, ok
}

// Exists reports whether a format name is configured.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[key(name)]
	return ok
}

// Names returns the configured format names, sorted.
func (s *Service) Names() []string {
	names := make([]string, 0, len(s.formats))
	for _, f := range s.formats {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named formats, or all formats when names is empty.
func (s *Service) Select(names []string) ([]config.FormatSpec, error) {
	if len(names) == 0 {
		return s.formats, nil
	}
	var result []config.FormatSpec
	for _, n := range names {
		f, ok := s.Get(n)
		if !ok {
			return nil, fmt.Errorf("unknown format %q", n)
		}
		result = append(result, f)
	}
	return result, nil
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
