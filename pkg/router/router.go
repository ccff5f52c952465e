package router

import (
	"errors"
	"fmt"
	"sort"

	"github.com/base-angewandte/baseauth/pkg/config"
)

// ErrUnknownField is returned for field names without configuration.
var ErrUnknownField = errors.New("unknown autosuggest field")

// Kind tags the variant held by a SourceConfig.
type Kind int

const (
	LocalFunction Kind = iota + 1
	RestSourceSet
)

func (k Kind) String() string {
	switch k {
	case LocalFunction:
		return "local"
	case RestSourceSet:
		return "rest"
	default:
		return "unknown"
	}
}

// Mode is the lookup flavour: everything, or filtered by a query.
type Mode string

const (
	ModeAll    Mode = "all"
	ModeSearch Mode = "search"
)

// SourceConfig is the compiled form of a config.FieldConfig. Local is set for
// LocalFunction, Sources for RestSourceSet.
type SourceConfig struct {
	Kind    Kind
	Local   string
	Sources map[Mode][]string
}

// Target is what a field resolves to for one mode.
type Target struct {
	Field   string
	Kind    Kind
	Local   string
	Sources []string
}

// Router resolves autosuggest field names to their sources.
type Router struct {
	fields map[string]SourceConfig
}

// New creates a Router from the given configuration.
func New(cfg *config.Config) *Router {
	fields := make(map[string]SourceConfig, len(cfg.Autosuggest))
	for name, fc := range cfg.Autosuggest {
		fields[name] = compile(fc)
	}
	return &Router{fields: fields}
}

func compile(fc config.FieldConfig) SourceConfig {
	if fc.Local != "" {
		return SourceConfig{Kind: LocalFunction, Local: fc.Local}
	}
	pick := func(specific []string) []string {
		if len(specific) > 0 {
			return specific
		}
		return fc.Sources
	}
	return SourceConfig{
		Kind: RestSourceSet,
		Sources: map[Mode][]string{
			ModeAll:    pick(fc.All),
			ModeSearch: pick(fc.Search),
		},
	}
}

// Resolve returns the target for field in the given mode.
func (r *Router) Resolve(field string, mode Mode) (Target, error) {
	sc, ok := r.fields[field]
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	t := Target{Field: field, Kind: sc.Kind, Local: sc.Local}
	if sc.Kind == RestSourceSet {
		t.Sources = sc.Sources[mode]
	}
	return t, nil
}

// Fields returns the configured field names in sorted order.
func (r *Router) Fields() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config returns the compiled configuration of field.
func (r *Router) Config(field string) (SourceConfig, bool) {
	sc, ok := r.fields[field]
	return sc, ok
}
