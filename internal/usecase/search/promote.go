package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/geffen-cloud/vintner/internal/domain"
	"github.com/geffen-cloud/vintner/internal/logger"
	"github.com/geffen-cloud/vintner/internal/metrics"
)

// Injector merges merchant boost rules into the candidate pool. Rule targets
// missing from the pool are fetched directly from the catalog; the combined
// set is then re-validated against the user's hard filters, so a promotion
// can never smuggle in an item that violates them.
type Injector struct {
	catalog Catalog
	rules   RuleSource
}

// NewInjector creates a boost-rule injector.
func NewInjector(catalog Catalog, rules RuleSource) *Injector {
	return &Injector{catalog: catalog, rules: rules}
}

// Inject applies matching rules: multiply the target's score by the rule's
// boost, mark it promoted, and pin it when the rule says so. Rule-store
// failures turn the stage into a no-op.
func (inj *Injector) Inject(
	ctx context.Context, tenant, queryText string,
	cands []domain.Candidate, f domain.Filters, ov domain.Overrides,
) []domain.Candidate {
	log := logger.FromContext(ctx)

	matched, err := inj.rules.GetRelevantRules(ctx, tenant, queryText)
	if err != nil {
		log.Warn("rule fetch failed, skipping promotion",
			zap.String("tenant", tenant), zap.Error(err))
		return cands
	}
	if len(matched) == 0 {
		return cands
	}

	out := make([]domain.Candidate, len(cands))
	copy(out, cands)

	index := make(map[string]int, len(out))
	for i, c := range out {
		index[c.ID] = i
	}

	var missing []string
	for _, r := range matched {
		if _, ok := index[r.ProductID]; !ok && r.ProductID != "" {
			missing = append(missing, r.ProductID)
		}
	}

	if len(missing) > 0 {
		metrics.FallbackFetchesTotal.WithLabelValues("rule_target").Inc()
		fetched, err := inj.catalog.FetchByIDs(ctx, tenant, missing)
		if err != nil {
			log.Warn("rule target fetch failed",
				zap.String("tenant", tenant), zap.Error(err))
		}
		for _, c := range fetched {
			if _, ok := index[c.ID]; ok {
				continue
			}
			if c.Score == 0 {
				c.Score = fallbackScore
			}
			index[c.ID] = len(out)
			out = append(out, c)
		}
	}

	for _, r := range matched {
		i, ok := index[r.ProductID]
		if !ok {
			continue
		}
		out[i].Score *= r.Multiplier()
		out[i].Promoted = true
		if r.PinToTop {
			out[i].PromotedPin = true
		}
	}

	// Promoted items must still satisfy the explicit hard filters.
	hc := buildConstraints(f, ov)
	if !hc.empty() {
		out = applyConstraints(out, hc)
	}

	sortByScore(out)
	return out
}
