package domain

import "time"

// Candidate is one catalog item under consideration during a single search
// request. It is read from the catalog store, mutated stage by stage, and
// discarded once the response is built; nothing in it survives the request.
type Candidate struct {
	ID          string
	Name        string
	Description string
	Price       float64

	// Categories holds catalog-native category tokens (product class, color).
	// SoftCategories holds free-form merchandising tags.
	Categories     []string
	SoftCategories []string

	Country string
	Region  string

	Stock    int
	Rating   float64 // 0-100 scale
	Sales    int     // lifetime units sold
	Sales30d int     // units sold in the trailing 30 days
	Views    int
	Kosher   bool

	CreatedAt time.Time

	// SemanticScore and TextScore are the per-channel retrieval scores,
	// normalized to [0,1]. Score is the working composite mutated through
	// the pipeline.
	SemanticScore float64
	TextScore     float64
	Score         float64

	// Promoted flags are set only by the boost-rule stage.
	Promoted    bool
	PromotedPin bool
}

// HasCategoryToken reports whether any category or soft-category value
// contains the given token, case-insensitively.
func (c Candidate) HasCategoryToken(token string) bool {
	for _, v := range c.Categories {
		if containsFold(v, token) {
			return true
		}
	}
	for _, v := range c.SoftCategories {
		if containsFold(v, token) {
			return true
		}
	}
	return false
}
