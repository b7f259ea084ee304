package sdk

// SearchRequest is the body of POST /v1/{tenant}/search.
type SearchRequest struct {
	Query     string   `json:"query"`
	Limit     int      `json:"limit,omitempty"`
	Offset    int      `json:"offset,omitempty"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	Countries []string `json:"countries,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	Kosher    *bool    `json:"kosher,omitempty"`
}

// Item is one scored product in a search response.
type Item struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Price          float64  `json:"price"`
	Categories     []string `json:"categories,omitempty"`
	SoftCategories []string `json:"soft_categories,omitempty"`
	Country        string   `json:"country,omitempty"`
	Region         string   `json:"region,omitempty"`
	Stock          int      `json:"stock"`
	Rating         float64  `json:"rating"`
	Kosher         bool     `json:"kosher"`
	Score          float64  `json:"score"`
	Promoted       bool     `json:"promoted,omitempty"`
	Pinned         bool     `json:"pinned,omitempty"`
}

// AppliedFilters reports the constraints the pipeline extracted and applied.
type AppliedFilters struct {
	Types      []string `json:"types,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Countries  []string `json:"countries,omitempty"`
	Regions    []string `json:"regions,omitempty"`
	Grapes     []string `json:"grapes,omitempty"`
	Sweetness  []string `json:"sweetness,omitempty"`
	SoftTags   []string `json:"soft_tags,omitempty"`
	Kosher     *bool    `json:"kosher,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
}

// Metadata describes how a result set was produced.
type Metadata struct {
	AppliedFilters AppliedFilters     `json:"applied_filters"`
	RetrievalMode  string             `json:"retrieval_mode"`
	StageCounts    map[string]int     `json:"stage_counts"`
	TimingsMs      map[string]float64 `json:"timings_ms"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Items    []Item   `json:"items"`
	Total    int      `json:"total"`
	Metadata Metadata `json:"metadata"`
}
