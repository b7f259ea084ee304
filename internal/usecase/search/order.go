package search

import "github.com/geffen-cloud/vintner/internal/domain"

// Order enforces the final bucket ordering — pinned, then promoted-not-
// pinned, then everything else, each bucket keeping its internal score
// order — and slices the [offset, offset+limit) page window.
func Order(cands []domain.Candidate, limit, offset int) []domain.Candidate {
	var pinned, promoted, organic []domain.Candidate
	for _, c := range cands {
		switch {
		case c.PromotedPin:
			pinned = append(pinned, c)
		case c.Promoted:
			promoted = append(promoted, c)
		default:
			organic = append(organic, c)
		}
	}

	ordered := make([]domain.Candidate, 0, len(cands))
	ordered = append(ordered, pinned...)
	ordered = append(ordered, promoted...)
	ordered = append(ordered, organic...)

	return paginate(ordered, limit, offset)
}

func paginate(items []domain.Candidate, limit, offset int) []domain.Candidate {
	if offset >= len(items) || limit <= 0 {
		return []domain.Candidate{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
