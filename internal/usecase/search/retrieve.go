package search

import "github.com/geffen-cloud/vintner/internal/domain"

// Heuristic holds the lexical strength thresholds deciding whether the
// semantic channel can be skipped. The default values are empirically tuned
// magic numbers with no documented derivation; keep them overridable rather
// than re-deriving them.
type Heuristic struct {
	// TopScore is the minimum score of the best lexical hit.
	TopScore float64
	// AvgTop3 is the minimum mean score of the top three hits.
	AvgTop3 float64
	// StrongScore is the per-hit threshold counted toward StrongHitsBase.
	StrongScore float64
	// StrongHitsBase is the baseline number of strong hits required; the
	// effective requirement grows mildly with the requested page size.
	StrongHitsBase int
}

// DefaultHeuristic returns the tuned thresholds.
func DefaultHeuristic() Heuristic {
	return Heuristic{
		TopScore:       0.85,
		AvgTop3:        0.65,
		StrongScore:    0.75,
		StrongHitsBase: 3,
	}
}

// LexicalIsStrong reports whether the lexical pool alone is decisive for a
// page of the given size, letting the pipeline skip the embedding round trip.
func (h Heuristic) LexicalIsStrong(lexical []domain.Candidate, limit int) bool {
	if len(lexical) == 0 {
		return false
	}

	var top, top3Sum float64
	top3Count := 0
	strongHits := 0

	for i, c := range lexical {
		if c.TextScore > top {
			top = c.TextScore
		}
		if i < 3 {
			top3Sum += c.TextScore
			top3Count++
		}
		if c.TextScore >= h.StrongScore {
			strongHits++
		}
	}

	avgTop3 := top3Sum / float64(top3Count)

	// Bigger pages demand more strong hits before skipping semantics.
	need := h.StrongHitsBase + limit/10

	return top >= h.TopScore && avgTop3 >= h.AvgTop3 && strongHits >= need
}
