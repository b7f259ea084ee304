package search

import (
	"math"
	"strings"

	"github.com/geffen-cloud/vintner/internal/domain"
)

// Soft boost parameters: +3% per matched token, capped at +15%.
const (
	softBoostPerMatch = 0.03
	softBoostCap      = 0.15
)

// softSynonyms expands a soft tag into the catalog-native tokens it may
// appear as on items. Tags without an entry are used verbatim.
var softSynonyms = map[string][]string{
	"france":    {"france", "french", "צרפת"},
	"italy":     {"italy", "italian", "איטליה"},
	"spain":     {"spain", "spanish", "ספרד"},
	"israel":    {"israel", "israeli", "ישראל"},
	"dry":       {"dry", "יבש"},
	"semi-dry":  {"semi-dry", "semi dry", "חצי יבש"},
	"sweet":     {"sweet", "מתוק"},
	"brut":      {"brut", "ברוט"},
	"shiraz":    {"shiraz", "syrah", "שיראז"},
	"fruity":    {"fruity", "fruit", "פירותי"},
	"oak":       {"oak", "oaked", "עץ אלון"},
	"light":     {"light", "light-bodied", "קליל"},
	"full body": {"full body", "full-bodied", "גוף מלא"},
	"dessert":   {"dessert", "דסרט", "קינוח"},
	"organic":   {"organic", "אורגני"},
}

// ApplySoftBoost multiplies each candidate's working score by
// 1 + min(cap, matches*step), where matches counts expanded soft-tag tokens
// present in the candidate's category fields. A preference never excludes;
// with no soft tags this is a no-op.
func ApplySoftBoost(cands []domain.Candidate, softTags []string) []domain.Candidate {
	if len(softTags) == 0 {
		return cands
	}

	tokens := expandSoftTags(softTags)

	out := make([]domain.Candidate, len(cands))
	for i, c := range cands {
		matches := 0
		for _, token := range tokens {
			if c.HasCategoryToken(token) {
				matches++
			}
		}
		if matches > 0 {
			c.Score *= 1 + math.Min(softBoostCap, float64(matches)*softBoostPerMatch)
		}
		out[i] = c
	}

	sortByScore(out)
	return out
}

// expandSoftTags maps tags through the synonym table, deduplicated,
// insertion order preserved.
func expandSoftTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if key == "" {
			continue
		}
		if syn, ok := softSynonyms[key]; ok {
			out = mergeUnique(out, syn)
			continue
		}
		out = mergeUnique(out, []string{key})
	}
	return out
}
