// Package lookup answers autosuggest requests for configured field names.
package lookup

import (
	"context"
	"fmt"

	"github.com/base-angewandte/baseauth/pkg/autosuggest"
	"github.com/base-angewandte/baseauth/pkg/concepts"
	"github.com/base-angewandte/baseauth/pkg/i18n"
	"github.com/base-angewandte/baseauth/pkg/logging"
	"github.com/base-angewandte/baseauth/pkg/models"
	"github.com/base-angewandte/baseauth/pkg/router"
)

// RestFetcher queries named REST sources.
type RestFetcher interface {
	Fetch(ctx context.Context, query string, names []string) []models.ConceptRecord
	Has(name string) bool
}

// Service dispatches a field to its local function or REST sources.
type Service struct {
	router   *router.Router
	registry concepts.Registry
	rest     RestFetcher
	log      *logging.Logger
}

// New creates a Service and checks that every field refers to a registered
// local function or a configured source.
func New(rt *router.Router, registry concepts.Registry, rest RestFetcher, log *logging.Logger) (*Service, error) {
	for _, field := range rt.Fields() {
		sc, _ := rt.Config(field)
		switch sc.Kind {
		case router.LocalFunction:
			if _, ok := registry.Get(sc.Local); !ok {
				return nil, fmt.Errorf("autosuggest %q: unknown local function %q", field, sc.Local)
			}
		case router.RestSourceSet:
			for _, names := range sc.Sources {
				for _, n := range names {
					if rest == nil || !rest.Has(n) {
						return nil, fmt.Errorf("autosuggest %q: undefined source %q", field, n)
					}
				}
			}
		}
	}
	return &Service{
		router:   rt,
		registry: registry,
		rest:     rest,
		log:      logging.Default(log).With("component", "lookup"),
	}, nil
}

// Fields returns the configured field names.
func (s *Service) Fields() []string {
	return s.router.Fields()
}

// All returns every suggestion for field.
func (s *Service) All(ctx context.Context, field string) ([]models.ConceptRecord, error) {
	t, err := s.router.Resolve(field, router.ModeAll)
	if err != nil {
		return nil, err
	}
	if t.Kind == router.LocalFunction {
		return s.local(ctx, t), nil
	}
	return s.rest.Fetch(ctx, "", t.Sources), nil
}

// Search returns the suggestions for field matching query.
func (s *Service) Search(ctx context.Context, field, query string) ([]models.ConceptRecord, error) {
	t, err := s.router.Resolve(field, router.ModeSearch)
	if err != nil {
		return nil, err
	}
	if t.Kind == router.LocalFunction {
		return autosuggest.Search(s.local(ctx, t), query, i18n.FromContext(ctx)), nil
	}
	return s.rest.Fetch(ctx, query, t.Sources), nil
}

func (s *Service) local(ctx context.Context, t router.Target) []models.ConceptRecord {
	fn, _ := s.registry.Get(t.Local)
	records := fn(ctx)
	if records == nil {
		records = []models.ConceptRecord{}
	}
	s.log.Debug("local lookup", "field", t.Field, "function", t.Local, "count", len(records))
	return records
}
