// Package aggregator queries configured REST sources and merges their results
// into one list of concept records.
package aggregator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/i18n"
	"github.com/base-angewandte/baseauth/pkg/logging"
	"github.com/base-angewandte/baseauth/pkg/models"
	"github.com/base-angewandte/baseauth/pkg/upstream"
)

type source struct {
	name    string
	cfg     config.RestSource
	mapping *Mapping
}

// Aggregator fans a query out to REST sources one after another.
type Aggregator struct {
	sources map[string]*source
	http    *http.Client
	log     *logging.Logger
}

// New compiles the mappings of every configured source. httpClient may be nil.
func New(cfg *config.Config, httpClient *http.Client, log *logging.Logger) (*Aggregator, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	a := &Aggregator{
		sources: make(map[string]*source, len(cfg.Sources)),
		http:    httpClient,
		log:     logging.Default(log).With("component", "aggregator"),
	}
	for name, sc := range cfg.Sources {
		m, err := CompileMapping(sc.Mapping, cfg.Languages)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", name, err)
		}
		a.sources[name] = &source{name: name, cfg: sc, mapping: m}
	}
	return a, nil
}

// Has reports whether name is a configured source.
func (a *Aggregator) Has(name string) bool {
	_, ok := a.sources[name]
	return ok
}

// Fetch queries the named sources in order and concatenates their records.
// A failing source contributes nothing; the result is never nil.
func (a *Aggregator) Fetch(ctx context.Context, query string, names []string) []models.ConceptRecord {
	lang := i18n.FromContext(ctx)
	out := []models.ConceptRecord{}
	for _, name := range names {
		src, ok := a.sources[name]
		if !ok {
			a.log.Warn("unknown source", "source", name)
			continue
		}
		records, err := a.fetchOne(ctx, src, query, lang)
		if err != nil {
			a.log.Warn("source failed", "source", name, "error", err)
			continue
		}
		out = append(out, records...)
	}
	return out
}

func (a *Aggregator) fetchOne(ctx context.Context, src *source, query, lang string) ([]models.ConceptRecord, error) {
	r := strings.NewReplacer("{query}", query, "{lang}", lang)
	params := url.Values{}
	for k, v := range src.cfg.Params {
		params.Set(k, r.Replace(v))
	}

	var doc any
	if err := upstream.GetJSON(ctx, a.http, src.cfg.URL, params, src.cfg.Headers, src.cfg.SourceTimeout(), &doc); err != nil {
		return nil, err
	}
	records, dropped := src.mapping.Apply(doc)
	if dropped > 0 {
		a.log.Debug("dropped malformed items", "source", src.name, "count", dropped)
	}
	return records, nil
}
