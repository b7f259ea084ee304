package domain

import "errors"

// Sentinel errors for the search pipeline and its collaborators.
var (
	// ErrInvalidQuery marks malformed search requests (400).
	ErrInvalidQuery = errors.New("invalid query")

	// ErrCatalogUnavailable marks catalog-connectivity failures. This is the
	// only error class that aborts a pipeline run; everything else degrades.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrEmbeddingProviderError marks embedding API failures. The retrieval
	// coordinator treats it as an empty semantic channel.
	ErrEmbeddingProviderError = errors.New("embedding provider error")

	// ErrExtractorError marks NER provider failures. The filter extractor
	// swallows it and keeps the rule-derived filters.
	ErrExtractorError = errors.New("entity extractor error")
)
