package domain

import (
	"strings"
	"time"
)

// MatchMode selects how a boost rule trigger is compared with the query.
type MatchMode string

const (
	// MatchContains matches when the query contains the trigger as a substring.
	MatchContains MatchMode = "contains"
	// MatchExact matches when the query equals the trigger.
	MatchExact MatchMode = "exact"
)

// BoostRule is a merchant-defined promotion. The rule store owns its
// lifecycle; the pipeline only reads it.
type BoostRule struct {
	ID        string
	Tenant    string
	ProductID string
	Trigger   string
	Match     MatchMode
	BoostPct  float64 // e.g. 20 means +20% on the working score
	PinToTop  bool
	Active    bool

	// Optional validity window. Nil bounds are open-ended.
	ValidFrom  *time.Time
	ValidUntil *time.Time
}

// Matches reports whether the rule applies to the query at the given time.
// Trigger comparison is case-insensitive.
func (r BoostRule) Matches(query string, now time.Time) bool {
	if !r.Active || r.Trigger == "" {
		return false
	}
	if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && now.After(*r.ValidUntil) {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(query))
	trigger := strings.ToLower(strings.TrimSpace(r.Trigger))

	switch r.Match {
	case MatchExact:
		return q == trigger
	case MatchContains:
		return strings.Contains(q, trigger)
	default:
		return false
	}
}

// Multiplier converts the boost percentage into a score multiplier.
func (r BoostRule) Multiplier() float64 {
	if r.BoostPct <= 0 {
		return 1.0
	}
	return 1.0 + r.BoostPct/100.0
}
