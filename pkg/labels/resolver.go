// Package labels resolves human-readable labels for single vocabulary
// concepts, with language fallback and caching.
package labels

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/base-angewandte/baseauth/pkg/cache"
	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/i18n"
	"github.com/base-angewandte/baseauth/pkg/logging"
	"github.com/base-angewandte/baseauth/pkg/skosmos"
)

// Vocabulary identifies a Skosmos vocabulary and the URI prefix of its
// concepts. The zero value selects the resolver's default.
type Vocabulary struct {
	ID    string
	Graph string
}

// Source is the part of the vocabulary client the resolver needs.
type Source interface {
	FetchConceptGraph(ctx context.Context, uri, vocID string) (*skosmos.Graph, error)
	FetchConceptLabels(ctx context.Context, vocID, conceptURI string) map[string]string
}

// Resolver looks up preferred and alternate labels.
type Resolver struct {
	src      Source
	memo     *cache.Memo
	vocab    Vocabulary
	taxonomy Vocabulary
	log      *logging.Logger
	group    singleflight.Group
}

// New creates a Resolver. Vocabulary defaults come from cfg: the portfolio
// vocabulary for concept labels and the taxonomy for collection labels.
func New(src Source, memo *cache.Memo, cfg config.SkosmosConfig, log *logging.Logger) *Resolver {
	return &Resolver{
		src:      src,
		memo:     memo,
		vocab:    Vocabulary{ID: cfg.VocID, Graph: cfg.VocGraph},
		taxonomy: Vocabulary{ID: cfg.TaxID, Graph: cfg.TaxGraph},
		log:      logging.Default(log).With("component", "labels"),
	}
}

func orDefault(v, def Vocabulary) Vocabulary {
	if v == (Vocabulary{}) {
		return def
	}
	return v
}

// fallbackLanguage pairs German with English; every other language falls
// back to English.
func fallbackLanguage(lang string) string {
	if lang == "en" {
		return "de"
	}
	return "en"
}

// PrefLabel returns the preferred label of concept in lang, then in the
// fallback language, or "" when neither exists or the service is down.
func (r *Resolver) PrefLabel(ctx context.Context, concept string, v Vocabulary, lang string) string {
	v = orDefault(v, r.vocab)
	lang = i18n.Resolve(ctx, lang)
	key := "get_preflabel_" + lang + "_" + concept

	var label string
	if r.memo.Get(ctx, key, &label) && label != "" {
		return label
	}

	res, _, _ := r.group.Do(key, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		labels := r.src.FetchConceptLabels(ctx, v.ID, v.Graph+concept)
		l, ok := labels[lang]
		if !ok {
			l = labels[fallbackLanguage(lang)]
		}
		if l != "" {
			r.memo.Set(ctx, key, l)
		}
		return l, nil
	})
	return res.(string)
}

// AltLabel returns the first alternate label of concept in lang, falling
// back to PrefLabel when there is none.
func (r *Resolver) AltLabel(ctx context.Context, concept string, v Vocabulary, lang string) string {
	v = orDefault(v, r.vocab)
	lang = i18n.Resolve(ctx, lang)
	key := "get_altlabel_" + lang + "_" + concept

	var label string
	if r.memo.Get(ctx, key, &label) && label != "" {
		return label
	}

	res, _, _ := r.group.Do(key, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		g, err := r.src.FetchConceptGraph(ctx, v.Graph+concept, "")
		if err != nil {
			r.log.Warn("alternate label lookup failed", "concept", concept, "error", err)
			return "", nil
		}
		for _, n := range g.Nodes {
			if l, ok := n.AltLabel.First(lang); ok {
				r.memo.Set(ctx, key, l)
				return l, nil
			}
		}
		return "", nil
	})
	if l := res.(string); l != "" {
		return l
	}
	return r.PrefLabel(ctx, concept, v, lang)
}

var collectionNoise = []string{"Sammlung", "Collection", "JART"}

// CollectionAltLabel returns the alternate label of a collection from the
// taxonomy with the upstream naming noise removed.
func (r *Resolver) CollectionAltLabel(ctx context.Context, collection string, v Vocabulary, lang string) string {
	label := r.AltLabel(ctx, collection, orDefault(v, r.taxonomy), lang)
	for _, s := range collectionNoise {
		label = strings.ReplaceAll(label, s, "")
	}
	return strings.TrimSpace(label)
}
