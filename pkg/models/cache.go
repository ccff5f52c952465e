package models

// CacheStats reports cache performance metrics.
type CacheStats struct {
	Backend string `json:"backend"`
	Entries int64  `json:"entries"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
}
