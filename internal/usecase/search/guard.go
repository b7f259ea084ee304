package search

import (
	"strings"

	"github.com/geffen-cloud/vintner/internal/domain"
)

// defaultGuardKeywords is the bilingual fallback list used when a tenant has
// no guardrail configuration. It is catalog-specific and deliberately
// overridable per tenant.
var defaultGuardKeywords = []string{
	"wine", "winery", "vineyard", "vintage", "cabernet", "merlot", "shiraz",
	"chardonnay", "sauvignon", "riesling", "brut", "rosé", "rose",
	"יין", "יקב", "כרם", "בציר", "קברנה", "מרלו", "שרדונה",
}

// Guardrail is a best-effort domain-relevance filter. It prefers items whose
// name or description indicates the expected domain but must never be the
// sole cause of a zero-result response.
type Guardrail struct {
	keywords []string
}

// NewGuardrail creates a guardrail over the given keyword list; an empty
// list falls back to the built-in bilingual defaults.
func NewGuardrail(keywords []string) *Guardrail {
	if len(keywords) == 0 {
		keywords = defaultGuardKeywords
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &Guardrail{keywords: lowered}
}

// Guard filters to in-domain candidates. If that would empty the set, the
// input is returned unchanged.
func (g *Guardrail) Guard(cands []domain.Candidate) []domain.Candidate {
	if len(cands) == 0 {
		return cands
	}

	kept := make([]domain.Candidate, 0, len(cands))
	for _, c := range cands {
		if g.inDomain(c) {
			kept = append(kept, c)
		}
	}

	if len(kept) == 0 {
		return cands
	}
	return kept
}

func (g *Guardrail) inDomain(c domain.Candidate) bool {
	name := strings.ToLower(c.Name)
	desc := strings.ToLower(c.Description)
	for _, kw := range g.keywords {
		if strings.Contains(name, kw) || strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}
