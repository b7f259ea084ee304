package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/geffen-cloud/vintner/internal/domain"
	"github.com/geffen-cloud/vintner/internal/logger"
	"github.com/geffen-cloud/vintner/internal/metrics"
)

// categoryTokenMap maps a parsed color or specific product type to the
// catalog category tokens that satisfy it. Unknown values map to no
// constraint. The generic type "wine" is handled separately via
// genericTypeMarkers.
var categoryTokenMap = map[string][]string{
	"red":       {"red", "red wine", "אדום"},
	"white":     {"white", "white wine", "לבן"},
	"rose":      {"rose", "rosé", "רוזה"},
	"sparkling": {"sparkling", "מבעבע"},
	"whiskey":   {"whiskey", "whisky", "וויסקי"},
	"vodka":     {"vodka", "וודקה"},
	"gin":       {"gin", "ג'ין"},
	"beer":      {"beer", "בירה"},
	"liqueur":   {"liqueur", "ליקר"},
}

// genericTypeMarkers maps a generic product type to the category markers a
// candidate must carry when the query asserts the type without a sub-type.
var genericTypeMarkers = map[string][]string{
	"wine": {"wine", "יין"},
}

// fallbackScore is the neutral working score assigned to candidates fetched
// directly from the catalog, which bypassed retrieval and carry no channel
// score.
const fallbackScore = 0.5

// hardConstraints is the compiled form of the hard filters: every candidate
// in the output must satisfy all of them.
type hardConstraints struct {
	categoryTokens []string
	genericMarkers []string
	countryAliases []string
	kosher         *bool
	minPrice       *float64
	maxPrice       *float64
}

func (hc hardConstraints) empty() bool {
	return len(hc.categoryTokens) == 0 && len(hc.genericMarkers) == 0 &&
		len(hc.countryAliases) == 0 && hc.kosher == nil &&
		hc.minPrice == nil && hc.maxPrice == nil
}

// buildConstraints compiles filters and explicit overrides into predicates.
// Parsed type/category values are hard (the rule pass is authoritative for
// them); parsed countries stay soft and only override countries bind here.
func buildConstraints(f domain.Filters, ov domain.Overrides) hardConstraints {
	var hc hardConstraints

	for _, c := range f.Categories {
		hc.categoryTokens = append(hc.categoryTokens, categoryTokenMap[strings.ToLower(c)]...)
	}
	for _, c := range ov.Colors {
		hc.categoryTokens = append(hc.categoryTokens, categoryTokenMap[strings.ToLower(c)]...)
	}
	for _, t := range f.Types {
		if _, generic := genericTypeMarkers[strings.ToLower(t)]; generic {
			continue
		}
		hc.categoryTokens = append(hc.categoryTokens, categoryTokenMap[strings.ToLower(t)]...)
	}

	// Generic-type guardrail: the type alone constrains only when nothing
	// more specific was asserted.
	if len(hc.categoryTokens) == 0 {
		for _, t := range f.Types {
			hc.genericMarkers = append(hc.genericMarkers, genericTypeMarkers[strings.ToLower(t)]...)
		}
	}

	for _, c := range ov.Countries {
		hc.countryAliases = append(hc.countryAliases, c)
		hc.countryAliases = append(hc.countryAliases, surfacesFor(countryVocab, []string{c})...)
	}

	hc.kosher = f.Kosher
	if ov.Kosher != nil {
		hc.kosher = ov.Kosher
	}

	hc.minPrice, hc.maxPrice = f.MinPrice, f.MaxPrice
	if ov.MinPrice != nil {
		hc.minPrice = ov.MinPrice
	}
	if ov.MaxPrice != nil {
		hc.maxPrice = ov.MaxPrice
	}

	return hc
}

// allows reports whether the candidate satisfies every asserted hard filter.
func (hc hardConstraints) allows(c domain.Candidate) bool {
	if len(hc.categoryTokens) > 0 && !hasAnyToken(c, hc.categoryTokens) {
		return false
	}
	if len(hc.genericMarkers) > 0 && !hasAnyToken(c, hc.genericMarkers) {
		return false
	}
	if len(hc.countryAliases) > 0 && !matchesCountry(c, hc.countryAliases) {
		return false
	}
	if hc.kosher != nil && c.Kosher != *hc.kosher {
		return false
	}
	if hc.minPrice != nil && c.Price < *hc.minPrice {
		return false
	}
	if hc.maxPrice != nil && c.Price > *hc.maxPrice {
		return false
	}
	return true
}

func hasAnyToken(c domain.Candidate, tokens []string) bool {
	for _, t := range tokens {
		if c.HasCategoryToken(t) {
			return true
		}
	}
	return false
}

// matchesCountry checks aliases as case-insensitive substrings across the
// candidate's country, region, and category fields.
func matchesCountry(c domain.Candidate, aliases []string) bool {
	haystacks := make([]string, 0, 2+len(c.Categories)+len(c.SoftCategories))
	haystacks = append(haystacks, c.Country, c.Region)
	haystacks = append(haystacks, c.Categories...)
	haystacks = append(haystacks, c.SoftCategories...)

	for _, alias := range aliases {
		a := strings.ToLower(alias)
		if a == "" {
			continue
		}
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), a) {
				return true
			}
		}
	}
	return false
}

func applyConstraints(cands []domain.Candidate, hc hardConstraints) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(cands))
	for _, c := range cands {
		if hc.allows(c) {
			out = append(out, c)
		}
	}
	return out
}

// Enforcer applies hard filters post-retrieval, with direct catalog
// re-fetches when filtering empties the pool. An explicit, satisfiable
// constraint must never be dropped just because ranked retrieval missed it.
type Enforcer struct {
	catalog  Catalog
	poolSize int
}

// NewEnforcer creates a constraint enforcer.
func NewEnforcer(catalog Catalog, poolSize int) *Enforcer {
	return &Enforcer{catalog: catalog, poolSize: poolSize}
}

// Enforce filters the pool down to candidates satisfying every hard filter.
// When the first pass empties the pool and a hard category constraint
// exists, a direct category fetch is issued and re-validated; if that is
// still empty and soft tags exist, a soft-tag fetch follows. Fetch failures
// degrade to an empty result for that path.
func (e *Enforcer) Enforce(
	ctx context.Context, tenant string,
	cands []domain.Candidate, f domain.Filters, ov domain.Overrides,
) []domain.Candidate {
	hc := buildConstraints(f, ov)
	if hc.empty() {
		return cands
	}

	out := applyConstraints(cands, hc)
	if len(out) > 0 || len(hc.categoryTokens) == 0 {
		return out
	}

	log := logger.FromContext(ctx)

	out = e.refetch(ctx, tenant, "category", hc, func(ctx context.Context) ([]domain.Candidate, error) {
		return e.catalog.FetchByCategory(ctx, tenant, hc.categoryTokens, e.poolSize)
	})
	if len(out) > 0 {
		log.Debug("category fallback recovered candidates", zap.Int("count", len(out)))
		return out
	}

	softTags := f.AllSoftTags()
	if len(softTags) == 0 {
		return out
	}

	out = e.refetch(ctx, tenant, "soft_tags", hc, func(ctx context.Context) ([]domain.Candidate, error) {
		return e.catalog.FetchBySoftTags(ctx, tenant, softTags, e.poolSize)
	})
	if len(out) > 0 {
		log.Debug("soft-tag fallback recovered candidates", zap.Int("count", len(out)))
	}
	return out
}

func (e *Enforcer) refetch(
	ctx context.Context, tenant, kind string, hc hardConstraints,
	fetch func(context.Context) ([]domain.Candidate, error),
) []domain.Candidate {
	metrics.FallbackFetchesTotal.WithLabelValues(kind).Inc()

	fetched, err := fetch(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("fallback fetch failed",
			zap.String("kind", kind), zap.String("tenant", tenant), zap.Error(err))
		return nil
	}

	for i := range fetched {
		if fetched[i].Score == 0 {
			fetched[i].Score = fallbackScore
		}
	}

	return applyConstraints(fetched, hc)
}
