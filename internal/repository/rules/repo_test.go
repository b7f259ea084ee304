package rules

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/geffen-cloud/vintner/internal/db"
	"github.com/geffen-cloud/vintner/internal/domain"
)

type mockStore struct {
	keys    []string
	scanErr error
	lastPat string

	hashes  []map[string]string
	hashErr error
}

func (m *mockStore) Scan(_ context.Context, pattern string) ([]string, error) {
	m.lastPat = pattern
	return m.keys, m.scanErr
}

func (m *mockStore) HGetAllMulti(_ context.Context, _ []string) ([]map[string]string, error) {
	return m.hashes, m.hashErr
}

var ruleNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(s store) *Repo {
	r := New(s, "vintner:")
	r.now = func() time.Time { return ruleNow }
	return r
}

func ruleFields(productID, trigger string) map[string]string {
	return map[string]string{
		"product_id": productID,
		"trigger":    trigger,
		"boost_pct":  "20",
		"active":     "1",
	}
}

func TestGetRelevantRules(t *testing.T) {
	store := &mockStore{
		keys: []string{"vintner:rules:t1:r1", "vintner:rules:t1:r2"},
		hashes: []map[string]string{
			ruleFields("p1", "wine"),
			ruleFields("p2", "whiskey"),
		},
	}
	repo := newTestRepo(store)

	out, err := repo.GetRelevantRules(context.Background(), "t1", "dry red wine")
	if err != nil {
		t.Fatalf("GetRelevantRules: %v", err)
	}

	if store.lastPat != "vintner:rules:t1:*" {
		t.Errorf("pattern = %s", store.lastPat)
	}
	if len(out) != 1 {
		t.Fatalf("got %d rules, want 1", len(out))
	}
	r := out[0]
	if r.ID != "r1" || r.ProductID != "p1" || r.BoostPct != 20 {
		t.Errorf("rule = %+v", r)
	}
	if r.Match != domain.MatchContains {
		t.Errorf("match = %s, want default contains", r.Match)
	}
}

func TestGetRelevantRulesNoKeys(t *testing.T) {
	repo := newTestRepo(&mockStore{})

	out, err := repo.GetRelevantRules(context.Background(), "t1", "wine")
	if err != nil || out != nil {
		t.Errorf("got %v, %v; want nil, nil", out, err)
	}
}

func TestGetRelevantRulesRespectsValidity(t *testing.T) {
	expired := ruleFields("p1", "wine")
	expired["valid_until"] = strconv.FormatInt(ruleNow.Add(-time.Hour).Unix(), 10)

	current := ruleFields("p2", "wine")
	current["valid_from"] = ruleNow.Add(-time.Hour).Format(time.RFC3339)
	current["valid_until"] = ruleNow.Add(time.Hour).Format(time.RFC3339)

	store := &mockStore{
		keys:   []string{"vintner:rules:t1:old", "vintner:rules:t1:new"},
		hashes: []map[string]string{expired, current},
	}
	repo := newTestRepo(store)

	out, err := repo.GetRelevantRules(context.Background(), "t1", "wine")
	if err != nil {
		t.Fatalf("GetRelevantRules: %v", err)
	}

	if len(out) != 1 || out[0].ID != "new" {
		t.Errorf("rules = %+v, want only new", out)
	}
}

func TestGetRelevantRulesSkipsInactive(t *testing.T) {
	inactive := ruleFields("p1", "wine")
	inactive["active"] = "0"

	store := &mockStore{
		keys:   []string{"vintner:rules:t1:r1"},
		hashes: []map[string]string{inactive},
	}
	repo := newTestRepo(store)

	out, err := repo.GetRelevantRules(context.Background(), "t1", "wine")
	if err != nil {
		t.Fatalf("GetRelevantRules: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("rules = %+v, want none", out)
	}
}

func TestGetRelevantRulesUnavailable(t *testing.T) {
	store := &mockStore{scanErr: db.ErrUnavailable}
	repo := newTestRepo(store)

	_, err := repo.GetRelevantRules(context.Background(), "t1", "wine")

	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("err = %v, want ErrCatalogUnavailable", err)
	}
}

func TestRuleFromFieldsExactMode(t *testing.T) {
	fields := ruleFields("p1", "red wine")
	fields["match"] = "exact"
	fields["pin_to_top"] = "1"

	rule := ruleFromFields("r1", "t1", fields)

	if rule.Match != domain.MatchExact || !rule.PinToTop {
		t.Errorf("rule = %+v", rule)
	}
}
