package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/geffen-cloud/vintner/internal/domain"
)

// candidateFields is the projection requested from the store. The embedding
// blob is never returned; the pipeline has no use for it.
var candidateFields = []string{
	"name", "description", "price", "category", "soft_category",
	"country", "region", "stock", "rating", "sales", "sales_30d",
	"views", "kosher", "created_at",
}

// bm25HalfScore calibrates the saturating BM25 normalization: a raw score
// equal to it maps to 0.5. Keeps absolute match strength visible to the
// channel-selection heuristic, unlike dividing by the batch max.
const bm25HalfScore = 5.0

func normalizeBM25(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	return raw / (raw + bm25HalfScore)
}

// candidateFromFields normalizes a raw hash document into a Candidate.
// Catalog documents are loosely typed; all coercion (tag-string splitting,
// numeric parsing, flag forms) happens here and nowhere else.
func candidateFromFields(id string, fields map[string]string) domain.Candidate {
	c := domain.Candidate{
		ID:             id,
		Name:           fields["name"],
		Description:    fields["description"],
		Country:        fields["country"],
		Region:         fields["region"],
		Categories:     splitTags(fields["category"]),
		SoftCategories: splitTags(fields["soft_category"]),
	}

	c.Price = parseFloat(fields["price"])
	c.Rating = parseFloat(fields["rating"])
	c.Stock = parseInt(fields["stock"])
	c.Sales = parseInt(fields["sales"])
	c.Sales30d = parseInt(fields["sales_30d"])
	c.Views = parseInt(fields["views"])
	c.Kosher = parseFlag(fields["kosher"])
	c.CreatedAt = parseTime(fields["created_at"])

	return c
}

// splitTags splits a tag field on the separators the ingestion side uses.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ','
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// parseTime accepts unix seconds or RFC 3339.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
