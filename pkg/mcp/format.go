package mcp

import (
	"fmt"
	"strings"

	"github.com/base-angewandte/baseauth/pkg/models"
)

// formatRecords formats concept records as a text table.
func formatRecords(records []models.ConceptRecord, lang string) string {
	if len(records) == 0 {
		return "No suggestions found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-40s %-12s %s\n", "Label", "Source Name", "Source")
	b.WriteString(strings.Repeat("-", 100) + "\n")
	for _, r := range records {
		label := []rune(r.Label.Get(lang, ""))
		if len(label) > 40 {
			label = append(label[:37], []rune("...")...)
		}
		fmt.Fprintf(&b, "%-40s %-12s %s\n", string(label), r.SourceName, r.Source)
	}
	fmt.Fprintf(&b, "\n%d suggestion(s)\n", len(records))
	return b.String()
}

// formatFields lists field names one per line.
func formatFields(fields []string) string {
	if len(fields) == 0 {
		return "No autosuggest fields configured."
	}
	return "Autosuggest fields:\n  " + strings.Join(fields, "\n  ") + "\n"
}

// formatCacheStats formats cache statistics as text.
func formatCacheStats(stats models.CacheStats) string {
	total := stats.Hits + stats.Misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(stats.Hits) / float64(total) * 100
	}
	return fmt.Sprintf("Cache Statistics (%s)\n"+
		"  Entries:  %d\n"+
		"  Hits:     %d\n"+
		"  Misses:   %d\n"+
		"  Hit Rate: %.1f%%\n",
		stats.Backend, stats.Entries, stats.Hits, stats.Misses, hitRate)
}
