package skosmos

import (
	"bytes"
	"encoding/json"
)

// ConceptType is the node type of SKOS concepts in JSON-LD graphs.
const ConceptType = "skos:Concept"

// LangValue is a language-tagged literal.
type LangValue struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

// LangValues is a list of literals. Skosmos emits a single object when a
// property has one value and an array otherwise; both decode here. A plain
// string decodes as a literal without a language tag.
type LangValues []LangValue

func (v *LangValues) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []LangValue
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = list
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*v = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = LangValues{{Value: s}}
		return nil
	}
	var one LangValue
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*v = LangValues{one}
	return nil
}

// Map returns the values keyed by language. Later duplicates win.
func (v LangValues) Map() map[string]string {
	out := make(map[string]string, len(v))
	for _, lv := range v {
		if lv.Lang == "" || lv.Value == "" {
			continue
		}
		out[lv.Lang] = lv.Value
	}
	return out
}

// First returns the first value in lang.
func (v LangValues) First(lang string) (string, bool) {
	for _, lv := range v {
		if lv.Lang == lang && lv.Value != "" {
			return lv.Value, true
		}
	}
	return "", false
}

// Types holds a node's type, which may be a string or a list of strings.
type Types []string

func (t *Types) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*t = list
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*t = Types{one}
	return nil
}

// Has reports whether typ is among the types.
func (t Types) Has(typ string) bool {
	for _, s := range t {
		if s == typ {
			return true
		}
	}
	return false
}

// Node is one resource in a concept graph.
type Node struct {
	URI       string     `json:"uri"`
	Type      Types      `json:"type"`
	PrefLabel LangValues `json:"prefLabel,omitempty"`
	AltLabel  LangValues `json:"altLabel,omitempty"`
}

// IsConcept reports whether the node is a SKOS concept.
func (n Node) IsConcept() bool {
	return n.Type.Has(ConceptType)
}

// Graph is the JSON-LD document returned by the data endpoints.
type Graph struct {
	Nodes []Node `json:"graph"`
}

// Find returns the node with the given URI.
func (g *Graph) Find(uri string) (Node, bool) {
	if g == nil {
		return Node{}, false
	}
	for _, n := range g.Nodes {
		if n.URI == uri {
			return n, true
		}
	}
	return Node{}, false
}

// ChildConcept is a search hit below a parent concept.
type ChildConcept struct {
	URI        string            `json:"uri"`
	PrefLabels map[string]string `json:"prefLabels"`
}

type searchResponse struct {
	Results []ChildConcept `json:"results"`
}
