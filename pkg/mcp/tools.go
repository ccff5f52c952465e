package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/base-angewandte/baseauth/pkg/i18n"
	"github.com/base-angewandte/baseauth/pkg/labels"
	"github.com/base-angewandte/baseauth/pkg/models"
	"github.com/base-angewandte/baseauth/pkg/router"
)

type lookupArgs struct {
	Field string `json:"field"`
	Query string `json:"query"`
	Lang  string `json:"lang"`
}

type labelArgs struct {
	Concept string `json:"concept"`
	Kind    string `json:"kind"`
	Lang    string `json:"lang"`
}

// toolHandler is a function that handles a tool call.
type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) toolResult

var toolHandlers = map[string]toolHandler{
	"autosuggest_lookup": handleLookup,
	"autosuggest_fields": handleFields,
	"concept_label":      handleLabel,
	"cache_stats":        handleCacheStats,
}

var langProperty = map[string]any{
	"type":        "string",
	"description": "Language code such as en or de (optional, defaults to en)",
}

var allTools = []toolSpec{
	{
		Name:        "autosuggest_lookup",
		Description: "List the suggestions of an autosuggest field, optionally filtered by a query.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"field"},
			"properties": map[string]any{
				"field": map[string]any{
					"type":        "string",
					"description": "Autosuggest field name, e.g. expertise",
				},
				"query": map[string]any{
					"type":        "string",
					"description": "Search string (optional, omit to list everything)",
				},
				"lang": langProperty,
			},
		},
	},
	{
		Name:        "autosuggest_fields",
		Description: "List the configured autosuggest field names.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "concept_label",
		Description: "Resolve the label of a vocabulary concept.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"concept"},
			"properties": map[string]any{
				"concept": map[string]any{
					"type":        "string",
					"description": "Concept identifier relative to the vocabulary graph",
				},
				"kind": map[string]any{
					"type":        "string",
					"enum":        []string{"pref", "alt", "collection"},
					"description": "Label kind (optional, defaults to pref)",
				},
				"lang": langProperty,
			},
		},
	},
	{
		Name:        "cache_stats",
		Description: "Show cache statistics (backend, entries, hits, misses, hit rate).",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
}

func textResult(text string) toolResult {
	return toolResult{Content: []textContent{{Type: "text", Text: text}}}
}

func errorResult(text string) toolResult {
	return toolResult{Content: []textContent{{Type: "text", Text: text}}, IsError: true}
}

func withLang(ctx context.Context, lang string) context.Context {
	if lang == "" {
		return ctx
	}
	return i18n.WithLanguage(ctx, lang)
}

func handleLookup(ctx context.Context, s *Server, rawArgs json.RawMessage) toolResult {
	var args lookupArgs
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return errorResult("invalid arguments: " + err.Error())
		}
	}
	if args.Field == "" {
		return errorResult("field is required")
	}
	ctx = withLang(ctx, args.Lang)

	var (
		records []models.ConceptRecord
		err     error
	)
	if args.Query == "" {
		records, err = s.lookup.All(ctx, args.Field)
	} else {
		records, err = s.lookup.Search(ctx, args.Field, args.Query)
	}
	if errors.Is(err, router.ErrUnknownField) {
		return errorResult("unknown field: " + args.Field)
	}
	if err != nil {
		return errorResult("lookup failed: " + err.Error())
	}
	return textResult(formatRecords(records, i18n.FromContext(ctx)))
}

func handleFields(_ context.Context, s *Server, _ json.RawMessage) toolResult {
	return textResult(formatFields(s.lookup.Fields()))
}

func handleLabel(ctx context.Context, s *Server, rawArgs json.RawMessage) toolResult {
	if s.labels == nil {
		return textResult("Label resolution is not configured.")
	}
	var args labelArgs
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return errorResult("invalid arguments: " + err.Error())
		}
	}
	if args.Concept == "" {
		return errorResult("concept is required")
	}
	kind, err := labels.ParseKind(args.Kind)
	if err != nil {
		return errorResult(err.Error())
	}

	label := s.labels.Ref(kind, args.Concept, labels.Vocabulary{}, args.Lang).Resolve(ctx)
	if label == "" {
		return textResult("No label found.")
	}
	return textResult(label)
}

func handleCacheStats(ctx context.Context, s *Server, _ json.RawMessage) toolResult {
	if s.cache == nil {
		return textResult("Cache is not configured.")
	}
	stats, err := s.cache.Stats(ctx)
	if err != nil {
		return errorResult("Error fetching cache stats: " + err.Error())
	}
	return textResult(formatCacheStats(stats))
}
