package labels

import (
	"context"
	"fmt"
)

// Kind selects which label a Ref resolves to.
type Kind int

const (
	Preferred Kind = iota
	Alternate
	CollectionAlternate
)

func (k Kind) String() string {
	switch k {
	case Preferred:
		return "pref"
	case Alternate:
		return "alt"
	case CollectionAlternate:
		return "collection"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps "pref", "alt" and "collection" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "pref":
		return Preferred, nil
	case "alt":
		return Alternate, nil
	case "collection":
		return CollectionAlternate, nil
	default:
		return 0, fmt.Errorf("unknown label kind %q", s)
	}
}

// Ref describes a label without looking it up. Nothing touches the network or
// the cache until Resolve is called. An empty Lang is taken from the context
// passed to Resolve.
type Ref struct {
	Kind       Kind
	Concept    string
	Vocabulary Vocabulary
	Lang       string

	resolver *Resolver
}

// Ref returns a deferred label descriptor bound to r.
func (r *Resolver) Ref(kind Kind, concept string, v Vocabulary, lang string) Ref {
	return Ref{Kind: kind, Concept: concept, Vocabulary: v, Lang: lang, resolver: r}
}

// Resolve performs the lookup. It never fails; missing labels are "".
func (ref Ref) Resolve(ctx context.Context) string {
	if ref.resolver == nil {
		return ""
	}
	switch ref.Kind {
	case Alternate:
		return ref.resolver.AltLabel(ctx, ref.Concept, ref.Vocabulary, ref.Lang)
	case CollectionAlternate:
		return ref.resolver.CollectionAltLabel(ctx, ref.Concept, ref.Vocabulary, ref.Lang)
	default:
		return ref.resolver.PrefLabel(ctx, ref.Concept, ref.Vocabulary, ref.Lang)
	}
}
