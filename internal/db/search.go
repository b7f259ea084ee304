package db

// TextQuery is the input for BM25 text search.
type TextQuery struct {
	IndexName    string
	Query        string
	Filter       string // pre-built FT filter fragment, may be empty
	TopK         int
	ReturnFields []string
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	Filter       string
	K            int
	ReturnFields []string
}

// TagQuery is the input for a direct tag-constrained fetch that bypasses
// scoring (used by the fallback re-fetch paths).
type TagQuery struct {
	IndexName    string
	Field        string
	Values       []string
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
