package search

import (
	"testing"

	"github.com/geffen-cloud/vintner/internal/domain"
)

func lexPool(scores ...float64) []domain.Candidate {
	out := make([]domain.Candidate, len(scores))
	for i, s := range scores {
		out[i] = domain.Candidate{ID: string(rune('a' + i)), TextScore: s}
	}
	return out
}

func TestLexicalIsStrong(t *testing.T) {
	h := DefaultHeuristic()

	tests := []struct {
		name  string
		pool  []domain.Candidate
		limit int
		want  bool
	}{
		{
			name:  "decisive pool",
			pool:  lexPool(0.95, 0.9, 0.85, 0.8),
			limit: 10,
			want:  true,
		},
		{
			name:  "empty pool",
			pool:  nil,
			limit: 10,
			want:  false,
		},
		{
			name:  "weak top score",
			pool:  lexPool(0.8, 0.78, 0.77, 0.76),
			limit: 10,
			want:  false,
		},
		{
			name:  "weak average",
			pool:  lexPool(0.9, 0.4, 0.3, 0.78, 0.76),
			limit: 10,
			want:  false,
		},
		{
			name:  "too few strong hits",
			pool:  lexPool(0.95, 0.9, 0.6),
			limit: 10,
			want:  false,
		},
		{
			// limit 40 raises the requirement to 3 + 4 = 7 strong hits.
			name:  "large page demands more strong hits",
			pool:  lexPool(0.95, 0.9, 0.85, 0.8, 0.78),
			limit: 40,
			want:  false,
		},
		{
			name:  "large page with enough strong hits",
			pool:  lexPool(0.95, 0.9, 0.85, 0.8, 0.78, 0.77, 0.76),
			limit: 40,
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.LexicalIsStrong(tt.pool, tt.limit); got != tt.want {
				t.Errorf("LexicalIsStrong = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeuristicOverrides(t *testing.T) {
	h := Heuristic{TopScore: 0.5, AvgTop3: 0.3, StrongScore: 0.4, StrongHitsBase: 1}

	if !h.LexicalIsStrong(lexPool(0.55, 0.2, 0.2), 5) {
		t.Error("relaxed thresholds should accept a modest pool")
	}
}
