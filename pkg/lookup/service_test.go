package lookup_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/base-angewandte/baseauth/pkg/concepts"
	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/i18n"
	"github.com/base-angewandte/baseauth/pkg/lookup"
	"github.com/base-angewandte/baseauth/pkg/models"
	"github.com/base-angewandte/baseauth/pkg/router"
)

type fakeRest struct {
	known   map[string]bool
	queries []string
	names   [][]string
}

func (f *fakeRest) Fetch(_ context.Context, query string, names []string) []models.ConceptRecord {
	f.queries = append(f.queries, query)
	f.names = append(f.names, names)
	return []models.ConceptRecord{{Source: "rest:" + query, Label: models.Label{"en": query}}}
}

func (f *fakeRest) Has(name string) bool { return f.known[name] }

func registry() concepts.Registry {
	return concepts.Registry{
		"skills": func(context.Context) []models.ConceptRecord {
			return []models.ConceptRecord{
				{Source: "1", Label: models.Label{"en": "Sculpture", "de": "Bildhauerei"}},
				{Source: "2", Label: models.Label{"en": "Café design"}},
			}
		},
		"empty": func(context.Context) []models.ConceptRecord { return nil },
	}
}

func newService(t *testing.T) (*lookup.Service, *fakeRest) {
	t.Helper()
	cfg := &config.Config{Autosuggest: map[string]config.FieldConfig{
		"expertise": {Local: "skills"},
		"nothing":   {Local: "empty"},
		"keywords":  {All: []string{"base"}, Search: []string{"gnd", "base"}},
	}}
	rest := &fakeRest{known: map[string]bool{"gnd": true, "base": true}}
	svc, err := lookup.New(router.New(cfg), registry(), rest, nil)
	require.NoError(t, err)
	return svc, rest
}

func TestLocalAllAndSearch(t *testing.T) {
	svc, rest := newService(t)
	ctx := context.Background()

	all, err := svc.All(ctx, "expertise")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := svc.Search(ctx, "expertise", "cafe")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "2", found[0].Source)

	found, err = svc.Search(i18n.WithLanguage(ctx, "de"), "expertise", "bild")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1", found[0].Source)

	assert.Empty(t, rest.queries)
}

func TestLocalNilBecomesEmpty(t *testing.T) {
	svc, _ := newService(t)
	got, err := svc.All(context.Background(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRestDispatch(t *testing.T) {
	svc, rest := newService(t)
	ctx := context.Background()

	_, err := svc.All(ctx, "keywords")
	require.NoError(t, err)
	got, err := svc.Search(ctx, "keywords", "clay")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "clay"}, rest.queries)
	assert.Equal(t, [][]string{{"base"}, {"gnd", "base"}}, rest.names)
	assert.Equal(t, "rest:clay", got[0].Source)
}

func TestUnknownField(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.All(context.Background(), "nope")
	assert.True(t, errors.Is(err, router.ErrUnknownField))
	_, err = svc.Search(context.Background(), "nope", "x")
	assert.True(t, errors.Is(err, router.ErrUnknownField))
}

func TestNewValidatesNames(t *testing.T) {
	cfg := &config.Config{Autosuggest: map[string]config.FieldConfig{"x": {Local: "missing"}}}
	_, err := lookup.New(router.New(cfg), registry(), &fakeRest{}, nil)
	assert.ErrorContains(t, err, "unknown local function")

	cfg = &config.Config{Autosuggest: map[string]config.FieldConfig{"x": {Sources: []string{"gone"}}}}
	_, err = lookup.New(router.New(cfg), registry(), &fakeRest{}, nil)
	assert.ErrorContains(t, err, "undefined source")
}
