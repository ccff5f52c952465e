// Package concepts fetches whole vocabulary collections as concept records.
package concepts

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/base-angewandte/baseauth/pkg/cache"
	"github.com/base-angewandte/baseauth/pkg/i18n"
	"github.com/base-angewandte/baseauth/pkg/logging"
	"github.com/base-angewandte/baseauth/pkg/models"
	"github.com/base-angewandte/baseauth/pkg/skosmos"
)

// unlabeled sorts records without a usable label last.
const unlabeled = "zzz"

// Source is the part of the vocabulary client the fetcher needs.
type Source interface {
	FetchConceptGraph(ctx context.Context, uri, vocID string) (*skosmos.Graph, error)
	FetchChildConcepts(ctx context.Context, parentURI string) ([]skosmos.ChildConcept, error)
}

// Collection identifies a vocabulary collection to fetch.
type Collection struct {
	URI           string
	VocID         string
	FetchChildren bool
	SourceName    string
}

func (c Collection) cacheKey(lang string) string {
	return cache.HashKey(c.URI, c.VocID, strconv.FormatBool(c.FetchChildren), c.SourceName, lang)
}

// Fetcher turns collections into sorted, cached concept record lists.
type Fetcher struct {
	src   Source
	memo  *cache.Memo
	log   *logging.Logger
	group singleflight.Group
}

// New creates a Fetcher.
func New(src Source, memo *cache.Memo, log *logging.Logger) *Fetcher {
	return &Fetcher{
		src:  src,
		memo: memo,
		log:  logging.Default(log).With("component", "concepts"),
	}
}

// FetchCollection returns the concepts of c sorted by their label in the
// active language. Non-empty results are cached; an upstream failure yields
// an empty, uncached result.
func (f *Fetcher) FetchCollection(ctx context.Context, c Collection) []models.ConceptRecord {
	lang := i18n.FromContext(ctx)
	key := c.cacheKey(lang)

	var records []models.ConceptRecord
	if f.memo.Get(ctx, key, &records) && len(records) > 0 {
		return records
	}

	res, _, _ := f.group.Do(key, func() (any, error) {
		// Shared by every waiter on key, so one caller's cancellation must
		// not end it. The client timeout still bounds it.
		ctx := context.WithoutCancel(ctx)
		records, err := f.fetch(ctx, c)
		if err != nil {
			f.log.Warn("collection fetch failed", "uri", c.URI, "error", err)
			return []models.ConceptRecord{}, nil
		}
		sortByLabel(records, lang)
		if len(records) > 0 {
			f.memo.Set(ctx, key, records)
		}
		return records, nil
	})
	return res.([]models.ConceptRecord)
}

func (f *Fetcher) fetch(ctx context.Context, c Collection) ([]models.ConceptRecord, error) {
	g, err := f.src.FetchConceptGraph(ctx, c.URI, c.VocID)
	if err != nil {
		return nil, err
	}

	records := []models.ConceptRecord{}
	for _, n := range g.Nodes {
		if !n.IsConcept() || n.URI == c.URI {
			continue
		}
		if label := n.PrefLabel.Map(); len(label) > 0 {
			records = append(records, models.ConceptRecord{Source: n.URI, Label: label, SourceName: c.SourceName})
		}
		if !c.FetchChildren {
			continue
		}
		kids, err := f.src.FetchChildConcepts(ctx, n.URI)
		if err != nil {
			return nil, err
		}
		for _, k := range kids {
			if len(k.PrefLabels) == 0 {
				continue
			}
			records = append(records, models.ConceptRecord{Source: k.URI, Label: k.PrefLabels, SourceName: c.SourceName})
		}
	}
	return records, nil
}

func sortByLabel(records []models.ConceptRecord, lang string) {
	sort.SliceStable(records, func(i, j int) bool {
		return strings.ToLower(records[i].Label.Get(lang, unlabeled)) <
			strings.ToLower(records[j].Label.Get(lang, unlabeled))
	})
}
