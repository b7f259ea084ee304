package domain

import "strings"

// Filters are the structured constraints derived from a free-text query.
// They are request-scoped and never persisted. List fields are conceptually
// sets; insertion order is preserved so pipeline output stays deterministic.
type Filters struct {
	Types      []string // product class: wine, whiskey, ...
	Categories []string // sub-class: red, white, rose, sparkling, ...
	Countries  []string
	Regions    []string
	Grapes     []string
	Sweetness  []string
	SoftTags   []string // free-form preference tags, never exclude

	Kosher   *bool
	MinPrice *float64
	MaxPrice *float64
}

// Empty reports whether no field carries a signal.
func (f Filters) Empty() bool {
	return len(f.Types) == 0 &&
		len(f.Categories) == 0 &&
		len(f.Countries) == 0 &&
		len(f.Regions) == 0 &&
		len(f.Grapes) == 0 &&
		len(f.Sweetness) == 0 &&
		len(f.SoftTags) == 0 &&
		f.Kosher == nil &&
		f.MinPrice == nil &&
		f.MaxPrice == nil
}

// AllSoftTags returns the union of soft signals (countries, regions, grapes,
// sweetness, free-form tags) used by the soft-boost stage.
func (f Filters) AllSoftTags() []string {
	var out []string
	out = appendUnique(out, f.Countries...)
	out = appendUnique(out, f.Regions...)
	out = appendUnique(out, f.Grapes...)
	out = appendUnique(out, f.Sweetness...)
	out = appendUnique(out, f.SoftTags...)
	return out
}

// appendUnique appends values not already present (case-insensitive).
func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if v == "" {
			continue
		}
		found := false
		for _, existing := range dst {
			if strings.EqualFold(existing, v) {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
