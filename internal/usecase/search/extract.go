package search

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/geffen-cloud/vintner/internal/domain"
	"github.com/geffen-cloud/vintner/internal/logger"
)

// Extractor turns free text into structured filters. The deterministic rule
// pass always runs; the external NER provider is consulted only when the
// rules find no signal at all, because it is slower, costs money, and must
// not override a deterministic match.
type Extractor struct {
	ner EntityExtractor // optional
}

// NewExtractor creates a filter extractor. ner may be nil to disable the
// fallback provider.
func NewExtractor(ner EntityExtractor) *Extractor {
	return &Extractor{ner: ner}
}

// Extract parses queryText into filters. NER failures are swallowed; the
// rule-pass filters (possibly empty) are returned instead.
func (e *Extractor) Extract(ctx context.Context, queryText string) domain.Filters {
	f := extractWithRules(queryText)
	if !f.Empty() || e.ner == nil {
		return f
	}

	ext, err := e.ner.Extract(ctx, queryText)
	if err != nil {
		logger.FromContext(ctx).Warn("ner extraction failed, using rule filters",
			zap.Error(err))
		return f
	}

	return mergeNER(f, ext.Filters)
}

// extractWithRules is the deterministic pass over the domain vocabulary.
func extractWithRules(queryText string) domain.Filters {
	text := strings.ToLower(queryText)

	f := domain.Filters{
		Types:      matchVocab(text, typeVocab),
		Categories: matchVocab(text, colorVocab),
		Countries:  matchVocab(text, countryVocab),
		Grapes:     matchVocab(text, grapeVocab),
		Sweetness:  matchVocab(text, sweetnessVocab),
	}

	f.Kosher = extractKosher(text)
	f.MinPrice, f.MaxPrice = extractPrice(text)

	return f
}

func extractKosher(text string) *bool {
	for _, s := range kosherNegSurfaces {
		if containsPhrase(text, s) {
			v := false
			return &v
		}
	}
	for _, s := range kosherPosSurfaces {
		if containsPhrase(text, s) {
			v := true
			return &v
		}
	}
	return nil
}

func extractPrice(text string) (minPrice, maxPrice *float64) {
	if m := priceBetweenRe.FindStringSubmatch(text); m != nil {
		lo, err1 := strconv.ParseFloat(m[1], 64)
		hi, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			if lo > hi {
				lo, hi = hi, lo
			}
			return &lo, &hi
		}
	}
	if m := priceUnderRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			maxPrice = &v
		}
	}
	if m := priceOverRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			minPrice = &v
		}
	}
	return minPrice, maxPrice
}

// mergeNER folds NER output into the rule-derived filters. List fields merge
// as set unions, except type and category: those are precision-critical hard
// signals, so NER values are accepted as additions only when the rule pass
// already produced at least one value for the field. A NER-only type or
// category is demoted to a soft tag instead of becoming a first hard
// constraint.
func mergeNER(rule, ner domain.Filters) domain.Filters {
	out := rule

	out.Types, out.SoftTags = mergeHardField(out.Types, ner.Types, out.SoftTags)
	out.Categories, out.SoftTags = mergeHardField(out.Categories, ner.Categories, out.SoftTags)

	out.Countries = mergeUnique(out.Countries, ner.Countries)
	out.Regions = mergeUnique(out.Regions, ner.Regions)
	out.Grapes = mergeUnique(out.Grapes, ner.Grapes)
	out.Sweetness = mergeUnique(out.Sweetness, ner.Sweetness)
	out.SoftTags = mergeUnique(out.SoftTags, ner.SoftTags)

	out.Kosher = mergeKosher(rule.Kosher, ner.Kosher)

	if out.MinPrice == nil {
		out.MinPrice = ner.MinPrice
	}
	if out.MaxPrice == nil {
		out.MaxPrice = ner.MaxPrice
	}

	return out
}

// mergeHardField merges NER values into a hard field only when the rule pass
// already asserted it; otherwise the values land in the soft tags.
func mergeHardField(hard, nerValues, softTags []string) (outHard, outSoft []string) {
	if len(hard) > 0 {
		return mergeUnique(hard, nerValues), softTags
	}
	return hard, mergeUnique(softTags, nerValues)
}

// mergeKosher: true if either source asserts true, false if either asserts
// false and neither asserts true, else unset.
func mergeKosher(a, b *bool) *bool {
	if (a != nil && *a) || (b != nil && *b) {
		v := true
		return &v
	}
	if a != nil || b != nil {
		v := false
		return &v
	}
	return nil
}

func mergeUnique(dst, src []string) []string {
	out := make([]string, len(dst))
	copy(out, dst)
	for _, v := range src {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" {
			continue
		}
		found := false
		for _, existing := range out {
			if strings.EqualFold(existing, v) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	return out
}
