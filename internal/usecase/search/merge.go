package search

import (
	"math"
	"sort"

	"github.com/geffen-cloud/vintner/internal/domain"
)

// Score blend constants. Tuned empirically; the worked example in the tests
// pins them down (lexical A:0.9 + semantic A:0.5/B:0.7 must yield A:0.668,
// B:0.546).
const (
	mergeSemanticWeight = 0.78
	mergeLexicalWeight  = 0.22
	mergeAgreementBonus = 0.08

	// Lexical-only hits bypass the blend; the affine remap keeps them
	// competitive against blended scores.
	mergeLexOnlyBase   = 0.25
	mergeLexOnlyWeight = 0.5

	// Semantic-only hits carry a floor at this fraction of their own
	// channel score. With the semantic weight at 0.78 the floor never
	// binds; it activates only if that weight is ever retuned below it.
	mergeSemOnlyFloor = 0.72
)

// Merge deduplicates and score-blends the two retrieval channels into one
// pool, ordered by blended score descending. Pure; the result is independent
// of per-channel input order for overlapping ids.
func Merge(lexical, semantic []domain.Candidate) []domain.Candidate {
	type entry struct {
		cand     domain.Candidate
		lexical  float64
		semantic float64
		inLex    bool
		inSem    bool
	}

	pool := make(map[string]*entry, len(lexical)+len(semantic))
	order := make([]string, 0, len(lexical)+len(semantic))

	for _, c := range lexical {
		score := normalizeChannelScore(c.TextScore)
		pool[c.ID] = &entry{cand: c, lexical: score, inLex: true}
		order = append(order, c.ID)
	}

	for _, c := range semantic {
		score := normalizeChannelScore(c.SemanticScore)
		if e, ok := pool[c.ID]; ok {
			e.semantic = score
			e.inSem = true
			// The lexical copy stays; carry the semantic channel score over.
			e.cand.SemanticScore = score
			continue
		}
		pool[c.ID] = &entry{cand: c, semantic: score, inSem: true}
		order = append(order, c.ID)
	}

	merged := make([]domain.Candidate, 0, len(pool))
	for _, id := range order {
		e := pool[id]
		c := e.cand
		c.TextScore = e.lexical
		c.SemanticScore = e.semantic

		switch {
		case e.inLex && e.inSem:
			// Agreement between channels earns a bonus.
			score := e.semantic*mergeSemanticWeight + e.lexical*mergeLexicalWeight + mergeAgreementBonus
			c.Score = math.Min(score, 1.0)
		case e.inSem:
			score := e.semantic * mergeSemanticWeight
			c.Score = math.Max(score, e.semantic*mergeSemOnlyFloor)
		default:
			c.Score = mergeLexOnlyBase + e.lexical*mergeLexOnlyWeight
		}

		merged = append(merged, c)
	}

	sortByScore(merged)
	return merged
}

// normalizeChannelScore clamps a channel score to [0,1]. Non-finite or
// negative values collapse to 0.
func normalizeChannelScore(s float64) float64 {
	if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
		return 0
	}
	if s >= 1 {
		return 1
	}
	return s
}

// sortByScore orders candidates by working score descending, breaking ties
// by id ascending so that equal-score output is deterministic.
func sortByScore(cands []domain.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].ID < cands[j].ID
	})
}
