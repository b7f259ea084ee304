// Package rules reads merchant boost rules from the Redis store. Rule
// lifecycle (creation, editing) belongs to the merchant console; this
// repository only reads.
package rules

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/geffen-cloud/vintner/internal/db"
	"github.com/geffen-cloud/vintner/internal/domain"
)

// store is the consumer interface for rule reads (ISP).
type store interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements usecase/search.RuleSource.
type Repo struct {
	store     store
	keyPrefix string
	now       func() time.Time
}

// New creates a rule repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, now: time.Now}
}

// GetRelevantRules returns the tenant's active rules whose trigger matches
// the query. Merchants hold at most a handful of rules, so a SCAN per
// request stays cheap.
func (r *Repo) GetRelevantRules(ctx context.Context, tenant, query string) ([]domain.BoostRule, error) {
	pattern := fmt.Sprintf("%srules:%s:*", r.keyPrefix, tenant)

	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, classify("scan rules", tenant, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, classify("read rules", tenant, err)
	}

	now := r.now()
	prefix := fmt.Sprintf("%srules:%s:", r.keyPrefix, tenant)

	var out []domain.BoostRule
	for i, fields := range maps {
		if len(fields) == 0 {
			continue
		}
		rule := ruleFromFields(strings.TrimPrefix(keys[i], prefix), tenant, fields)
		if rule.Matches(query, now) {
			out = append(out, rule)
		}
	}
	return out, nil
}

func ruleFromFields(id, tenant string, fields map[string]string) domain.BoostRule {
	rule := domain.BoostRule{
		ID:        id,
		Tenant:    tenant,
		ProductID: fields["product_id"],
		Trigger:   fields["trigger"],
		Match:     domain.MatchMode(fields["match"]),
		PinToTop:  fields["pin_to_top"] == "1",
		Active:    fields["active"] == "1",
	}

	if rule.Match == "" {
		rule.Match = domain.MatchContains
	}

	if v, err := strconv.ParseFloat(fields["boost_pct"], 64); err == nil {
		rule.BoostPct = v
	}

	rule.ValidFrom = parseOptionalTime(fields["valid_from"])
	rule.ValidUntil = parseOptionalTime(fields["valid_until"])

	return rule
}

func parseOptionalTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		t := time.Unix(secs, 0).UTC()
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

func classify(op, tenant string, err error) error {
	if errors.Is(err, db.ErrUnavailable) {
		return fmt.Errorf("%s %s: %w: %w", op, tenant, domain.ErrCatalogUnavailable, err)
	}
	return fmt.Errorf("%s %s: %w", op, tenant, err)
}
