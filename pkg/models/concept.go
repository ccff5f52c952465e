package models

// Label maps a language code to a display string.
type Label map[string]string

// Get returns the label in lang, falling back to English and then to fallback.
func (l Label) Get(lang, fallback string) string {
	if v, ok := l[lang]; ok {
		return v
	}
	if v, ok := l["en"]; ok {
		return v
	}
	return fallback
}

// ConceptRecord is the uniform shape of every autosuggest entry, regardless of
// whether it came from the vocabulary service or a configured REST source.
type ConceptRecord struct {
	Source     string `json:"source"`
	Label      Label  `json:"label"`
	SourceName string `json:"source_name,omitempty"`
}
