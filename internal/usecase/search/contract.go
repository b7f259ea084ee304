package search

import (
	"context"

	"github.com/geffen-cloud/vintner/internal/domain"
)

// Catalog is the storage contract for both retrieval channels and the
// direct fallback fetches. Implementations must be safe for concurrent use.
type Catalog interface {
	// TextSearch runs the lexical channel. Scores come back normalized to [0,1].
	TextSearch(
		ctx context.Context, tenant, query string,
		overrides domain.Overrides, limit int,
	) ([]domain.Candidate, error)

	// VectorSearch runs the semantic channel over a query embedding.
	VectorSearch(
		ctx context.Context, tenant string, vector []float32,
		overrides domain.Overrides, limit int,
	) ([]domain.Candidate, error)

	// FetchByCategory returns items carrying any of the category tokens,
	// bypassing relevance scoring. Used by the constraint fallback chain.
	FetchByCategory(ctx context.Context, tenant string, tokens []string, limit int) ([]domain.Candidate, error)

	// FetchBySoftTags returns items carrying any of the soft tags.
	FetchBySoftTags(ctx context.Context, tenant string, tags []string, limit int) ([]domain.Candidate, error)

	// FetchByIDs returns the items with the given ids, skipping missing ones.
	FetchByIDs(ctx context.Context, tenant string, ids []string) ([]domain.Candidate, error)
}

// Embedder vectorizes text into an embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Extraction is the NER provider output.
type Extraction struct {
	Filters    domain.Filters
	Confidence float64
	Language   string
}

// EntityExtractor is the external NER capability consulted when the
// deterministic rule pass finds nothing.
type EntityExtractor interface {
	Extract(ctx context.Context, text string) (Extraction, error)
}

// RuleSource reads merchant boost rules relevant to a query.
type RuleSource interface {
	GetRelevantRules(ctx context.Context, tenant, query string) ([]domain.BoostRule, error)
}
