package aggregator

import (
	"fmt"
	"strconv"

	"github.com/theory/jsonpath"

	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/models"
)

// Mapping is a compiled config.Mapping.
type Mapping struct {
	results    *jsonpath.Path
	source     *jsonpath.Path
	labels     map[string]*jsonpath.Path
	sourceName string
}

// CompileMapping parses every JSONPath of m. languages lists the label keys
// filled from m.LabelLang when m.Label is empty.
func CompileMapping(m config.Mapping, languages []string) (*Mapping, error) {
	results := m.Results
	if results == "" {
		results = "$"
	}
	out := &Mapping{labels: make(map[string]*jsonpath.Path), sourceName: m.SourceName}

	var err error
	if out.results, err = jsonpath.Parse(results); err != nil {
		return nil, fmt.Errorf("results: %w", err)
	}
	if out.source, err = jsonpath.Parse(m.Source); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	if len(m.Label) > 0 {
		for lang, expr := range m.Label {
			p, err := jsonpath.Parse(expr)
			if err != nil {
				return nil, fmt.Errorf("label.%s: %w", lang, err)
			}
			out.labels[lang] = p
		}
		return out, nil
	}
	p, err := jsonpath.Parse(m.LabelLang)
	if err != nil {
		return nil, fmt.Errorf("label_lang: %w", err)
	}
	for _, lang := range languages {
		out.labels[lang] = p
	}
	return out, nil
}

// Apply converts a decoded JSON document into records. The second return
// value counts items dropped for lacking a source or any label.
func (m *Mapping) Apply(doc any) ([]models.ConceptRecord, int) {
	var items []any
	for _, n := range m.results.Select(doc) {
		if list, ok := n.([]any); ok {
			items = append(items, list...)
			continue
		}
		items = append(items, n)
	}

	records := make([]models.ConceptRecord, 0, len(items))
	dropped := 0
	for _, item := range items {
		src, ok := first(m.source, item)
		if !ok {
			dropped++
			continue
		}
		label := models.Label{}
		for lang, p := range m.labels {
			if v, ok := first(p, item); ok {
				label[lang] = v
			}
		}
		if len(label) == 0 {
			dropped++
			continue
		}
		records = append(records, models.ConceptRecord{Source: src, Label: label, SourceName: m.sourceName})
	}
	return records, dropped
}

// first returns the first scalar selected by p as a non-empty string.
func first(p *jsonpath.Path, item any) (string, bool) {
	for _, n := range p.Select(item) {
		var s string
		switch v := n.(type) {
		case string:
			s = v
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			s = strconv.FormatBool(v)
		default:
			continue
		}
		if s != "" {
			return s, true
		}
	}
	return "", false
}
