package concepts

import (
	"context"
	"sort"
	"strings"

	"github.com/base-angewandte/baseauth/pkg/models"
)

// Collections published by the base vocabulary service.
var (
	BaseKeywordsCollection = Collection{
		URI:        "http://base.uni-ak.ac.at/recherche/keywords/collection_base",
		SourceName: "base",
	}
	DisciplinesCollection = Collection{
		URI:           "http://base.uni-ak.ac.at/portfolio/disciplines/oefos",
		FetchChildren: true,
		SourceName:    "voc",
	}
	RolesCollection = Collection{
		URI:        "http://base.uni-ak.ac.at/portfolio/vocabulary/role",
		SourceName: "roles",
	}
)

const disciplinesKey = "get_disciplines"

// BaseKeywords returns the base keyword collection.
func (f *Fetcher) BaseKeywords(ctx context.Context) []models.ConceptRecord {
	return f.FetchCollection(ctx, BaseKeywordsCollection)
}

// Roles returns the role vocabulary.
func (f *Fetcher) Roles(ctx context.Context) []models.ConceptRecord {
	return f.FetchCollection(ctx, RolesCollection)
}

// Disciplines returns the ÖFOS disciplines at the granularity used for
// expertise. ÖFOS codes grow by one, two or three digits per level; keeping
// codes whose length is a multiple of three selects the levels in use.
func (f *Fetcher) Disciplines(ctx context.Context) []models.ConceptRecord {
	var records []models.ConceptRecord
	if f.memo.Get(ctx, disciplinesKey, &records) && len(records) > 0 {
		return records
	}

	all := f.FetchCollection(ctx, DisciplinesCollection)
	records = make([]models.ConceptRecord, 0, len(all))
	for _, r := range all {
		code := r.Source[strings.LastIndex(r.Source, "/")+1:]
		if len(code)%3 == 0 {
			records = append(records, r)
		}
	}
	if len(records) > 0 {
		f.memo.Set(ctx, disciplinesKey, records)
	}
	return records
}

// Skills concatenates base keywords, disciplines and roles.
func (f *Fetcher) Skills(ctx context.Context) []models.ConceptRecord {
	skills := append([]models.ConceptRecord{}, f.BaseKeywords(ctx)...)
	skills = append(skills, f.Disciplines(ctx)...)
	return append(skills, f.Roles(ctx)...)
}

// LocalFunc produces a complete record list without a query.
type LocalFunc func(ctx context.Context) []models.ConceptRecord

// Registry maps local function names to implementations.
type Registry map[string]LocalFunc

// Registry returns the local functions backed by f.
func (f *Fetcher) Registry() Registry {
	return Registry{
		"skills":        f.Skills,
		"base_keywords": f.BaseKeywords,
		"disciplines":   f.Disciplines,
		"roles":         f.Roles,
	}
}

// Get returns the function registered under name.
func (r Registry) Get(name string) (LocalFunc, bool) {
	fn, ok := r[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
