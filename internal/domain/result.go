package domain

import "time"

// RetrievalMode records which channels produced the candidate pool.
type RetrievalMode string

const (
	// ModeTextOnly means the lexical channel alone was judged sufficient.
	ModeTextOnly RetrievalMode = "text_only"
	// ModeHybrid means the semantic channel was consulted as well.
	ModeHybrid RetrievalMode = "hybrid"
)

// Metadata describes how a result was produced.
type Metadata struct {
	AppliedFilters Filters
	RetrievalMode  RetrievalMode
	StageCounts    map[string]int
	Timings        map[string]time.Duration
}

// Result is the page window of the ranked pool plus diagnostics.
// Constructed fresh per request, never cached.
type Result struct {
	Items    []Candidate
	Total    int // pool size after the pipeline, before pagination
	Metadata Metadata
}
