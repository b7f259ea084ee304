package search

import (
	"math"
	"time"

	"github.com/geffen-cloud/vintner/internal/domain"
)

// Composite signal weights. Relevance dominates; the business signals nudge.
const (
	rerankRelevanceWeight  = 0.50
	rerankPopularityWeight = 0.20
	rerankRatingWeight     = 0.15
	rerankStockWeight      = 0.10
	rerankFreshnessWeight  = 0.05
)

// Coarse business multipliers, applied to the composite after weighting.
// They compose multiplicatively and are not re-normalized.
const (
	highStockThreshold  = 100
	highStockMultiplier = 1.1
	lowStockThreshold   = 5
	lowStockMultiplier  = 0.8

	highRatingThreshold  = 80.0
	highRatingMultiplier = 1.15

	hotSalesThreshold  = 50
	hotSalesMultiplier = 1.1
)

const (
	ratingScale     = 100.0
	freshnessWindow = 365 * 24 * time.Hour
)

// Rerank combines five signals into one composite score, applies the coarse
// business multipliers, sorts descending, and truncates to poolSize. The
// truncation never drops a merchant-promoted or pinned candidate: their
// placement is owed regardless of composite rank, and Order restores their
// precedence afterwards. Popularity and stock normalize against the current
// batch, not globally.
func Rerank(cands []domain.Candidate, poolSize int, now time.Time) []domain.Candidate {
	if len(cands) == 0 {
		return cands
	}

	var maxPopularity, maxStock float64
	for _, c := range cands {
		if p := float64(c.Sales + c.Views); p > maxPopularity {
			maxPopularity = p
		}
		if s := float64(c.Stock); s > maxStock {
			maxStock = s
		}
	}

	out := make([]domain.Candidate, len(cands))
	for i, c := range cands {
		relevance := clamp01(c.Score)

		popularity := 0.0
		if maxPopularity > 0 {
			popularity = float64(c.Sales+c.Views) / maxPopularity
		}

		rating := clamp01(c.Rating / ratingScale)

		// Logarithmic stock signal so high-stock items do not run away.
		stock := 0.0
		if maxStock > 0 && c.Stock > 0 {
			stock = math.Log(float64(c.Stock)+1) / math.Log(maxStock+1)
		}

		freshness := freshnessSignal(c.CreatedAt, now)

		composite := rerankRelevanceWeight*relevance +
			rerankPopularityWeight*popularity +
			rerankRatingWeight*rating +
			rerankStockWeight*stock +
			rerankFreshnessWeight*freshness

		if c.Stock > highStockThreshold {
			composite *= highStockMultiplier
		}
		if c.Stock < lowStockThreshold {
			composite *= lowStockMultiplier
		}
		if c.Rating > highRatingThreshold {
			composite *= highRatingMultiplier
		}
		if c.Sales30d > hotSalesThreshold {
			composite *= hotSalesMultiplier
		}

		c.Score = composite
		out[i] = c
	}

	sortByScore(out)

	if poolSize > 0 && len(out) > poolSize {
		out = truncateKeepingPromoted(out, poolSize)
	}
	return out
}

// truncateKeepingPromoted cuts a score-sorted pool to poolSize while
// retaining every promoted or pinned candidate. Promoted candidates claim
// slots first; the remainder goes to the top organic scores. When promoted
// candidates alone exceed poolSize, all of them survive the cut.
func truncateKeepingPromoted(sorted []domain.Candidate, poolSize int) []domain.Candidate {
	promotedCount := 0
	for _, c := range sorted {
		if c.Promoted || c.PromotedPin {
			promotedCount++
		}
	}

	organicBudget := poolSize - promotedCount
	if organicBudget < 0 {
		organicBudget = 0
	}

	kept := make([]domain.Candidate, 0, poolSize)
	for _, c := range sorted {
		if c.Promoted || c.PromotedPin {
			kept = append(kept, c)
			continue
		}
		if organicBudget > 0 {
			kept = append(kept, c)
			organicBudget--
		}
	}
	return kept
}

// freshnessSignal decays linearly from 1 to 0 over the trailing year.
func freshnessSignal(createdAt time.Time, now time.Time) float64 {
	if createdAt.IsZero() || createdAt.After(now) {
		return 0
	}
	age := now.Sub(createdAt)
	if age >= freshnessWindow {
		return 0
	}
	return 1 - float64(age)/float64(freshnessWindow)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
