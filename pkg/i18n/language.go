// Package i18n carries the active language through request contexts.
package i18n

import (
	"context"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is active.
const DefaultLanguage = "en"

type ctxKey struct{}

// WithLanguage returns a copy of ctx with lang as the active language.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// FromContext returns the active language, or DefaultLanguage.
func FromContext(ctx context.Context) string {
	if ctx != nil {
		if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
			return lang
		}
	}
	return DefaultLanguage
}

// Resolve returns lang if non-empty, else the active language of ctx.
func Resolve(ctx context.Context, lang string) string {
	if lang != "" {
		return lang
	}
	return FromContext(ctx)
}

// Matcher picks one of the configured languages for an Accept-Language header.
type Matcher struct {
	codes   []string
	matcher language.Matcher
}

// NewMatcher builds a Matcher over the given language codes. The first code is
// the fallback when nothing matches.
func NewMatcher(codes []string) *Matcher {
	if len(codes) == 0 {
		codes = []string{DefaultLanguage}
	}
	tags := make([]language.Tag, 0, len(codes))
	for _, c := range codes {
		tags = append(tags, language.Make(c))
	}
	return &Matcher{codes: codes, matcher: language.NewMatcher(tags)}
}

// Match returns the configured code best matching the header value.
func (m *Matcher) Match(acceptLanguage string) string {
	_, idx := language.MatchStrings(m.matcher, acceptLanguage)
	if idx < 0 || idx >= len(m.codes) {
		return m.codes[0]
	}
	return m.codes[idx]
}
