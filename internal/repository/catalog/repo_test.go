package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geffen-cloud/vintner/internal/db"
	"github.com/geffen-cloud/vintner/internal/domain"
)

// --- store mock ---

type mockStore struct {
	textResult *db.SearchResult
	textErr    error
	lastText   *db.TextQuery

	knnResult *db.SearchResult
	knnErr    error
	lastKNN   *db.KNNQuery

	tagResult *db.SearchResult
	tagErr    error
	lastTag   *db.TagQuery

	hashResults []map[string]string
	hashErr     error
	lastKeys    []string
}

func (m *mockStore) SearchText(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	m.lastText = q
	return m.textResult, m.textErr
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastKNN = q
	return m.knnResult, m.knnErr
}

func (m *mockStore) SearchTags(_ context.Context, q *db.TagQuery) (*db.SearchResult, error) {
	m.lastTag = q
	return m.tagResult, m.tagErr
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	m.lastKeys = keys
	return m.hashResults, m.hashErr
}

func docFields(name string) map[string]string {
	return map[string]string{
		"name":     name,
		"price":    "89.9",
		"category": "red wine|dry",
		"stock":    "12",
		"kosher":   "1",
	}
}

func TestTextSearch(t *testing.T) {
	store := &mockStore{textResult: &db.SearchResult{
		Total: 1,
		Entries: []db.SearchEntry{
			{Key: "vintner:catalog:t1:p1", Score: 5.0, Fields: docFields("Yarden Merlot")},
		},
	}}
	repo := New(store, "vintner:")

	out, err := repo.TextSearch(context.Background(), "t1", "merlot", domain.Overrides{}, 50)
	if err != nil {
		t.Fatalf("TextSearch: %v", err)
	}

	if store.lastText.IndexName != "vintner:catalog:t1:idx" {
		t.Errorf("index = %s", store.lastText.IndexName)
	}
	if len(out) != 1 {
		t.Fatalf("got %d candidates", len(out))
	}
	c := out[0]
	if c.ID != "p1" {
		t.Errorf("id = %s, want key prefix stripped to p1", c.ID)
	}
	// Raw 5.0 at the calibration point maps to 0.5.
	if c.TextScore != 0.5 {
		t.Errorf("TextScore = %v, want 0.5", c.TextScore)
	}
	if c.Price != 89.9 || c.Stock != 12 || !c.Kosher {
		t.Errorf("coercion failed: %+v", c)
	}
	if len(c.Categories) != 2 || c.Categories[0] != "red wine" {
		t.Errorf("Categories = %v", c.Categories)
	}
}

func TestTextSearchPassesOverrideFilter(t *testing.T) {
	store := &mockStore{textResult: &db.SearchResult{}}
	repo := New(store, "vintner:")

	hi := 150.0
	k := true
	ov := domain.Overrides{MaxPrice: &hi, Kosher: &k, Countries: []string{"France"}}

	_, err := repo.TextSearch(context.Background(), "t1", "wine", ov, 50)
	if err != nil {
		t.Fatalf("TextSearch: %v", err)
	}

	want := "@price:[-inf 150] @country:{france} @kosher:{1}"
	if store.lastText.Filter != want {
		t.Errorf("filter = %q, want %q", store.lastText.Filter, want)
	}
}

func TestVectorSearch(t *testing.T) {
	store := &mockStore{knnResult: &db.SearchResult{
		Entries: []db.SearchEntry{
			{Key: "vintner:catalog:t1:p2", Score: 0.82, Fields: docFields("Golan Syrah")},
		},
	}}
	repo := New(store, "vintner:")

	out, err := repo.VectorSearch(context.Background(), "t1", []float32{0.1, 0.2}, domain.Overrides{}, 50)
	if err != nil {
		t.Fatalf("VectorSearch: %v", err)
	}

	if len(out) != 1 || out[0].SemanticScore != 0.82 {
		t.Errorf("out = %+v", out)
	}
}

func TestFetchByIDsSkipsMissing(t *testing.T) {
	store := &mockStore{hashResults: []map[string]string{
		docFields("Present"),
		{}, // missing key
	}}
	repo := New(store, "vintner:")

	out, err := repo.FetchByIDs(context.Background(), "t1", []string{"a", "b"})
	if err != nil {
		t.Fatalf("FetchByIDs: %v", err)
	}

	if len(out) != 1 || out[0].ID != "a" {
		t.Errorf("out = %+v, want only a", out)
	}
	if len(store.lastKeys) != 2 || store.lastKeys[0] != "vintner:catalog:t1:a" {
		t.Errorf("keys = %v", store.lastKeys)
	}
}

func TestFetchByIDsEmptyInput(t *testing.T) {
	repo := New(&mockStore{}, "vintner:")

	out, err := repo.FetchByIDs(context.Background(), "t1", nil)
	if err != nil || out != nil {
		t.Errorf("got %v, %v; want nil, nil", out, err)
	}
}

func TestClassifyUnavailable(t *testing.T) {
	store := &mockStore{textErr: &db.Error{Op: db.OpSearch, Err: db.ErrUnavailable}}
	repo := New(store, "vintner:")

	_, err := repo.TextSearch(context.Background(), "t1", "wine", domain.Overrides{}, 50)

	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("err = %v, want ErrCatalogUnavailable", err)
	}
}

func TestClassifyCommandErrorPassesThrough(t *testing.T) {
	store := &mockStore{textErr: errors.New("syntax error at offset 3")}
	repo := New(store, "vintner:")

	_, err := repo.TextSearch(context.Background(), "t1", "wine", domain.Overrides{}, 50)

	if err == nil || errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("err = %v, want plain command error", err)
	}
}

func TestNormalizeBM25(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{0, 0},
		{-1, 0},
		{5, 0.5},
		{15, 0.75},
	}
	for _, tt := range tests {
		if got := normalizeBM25(tt.raw); got != tt.want {
			t.Errorf("normalizeBM25(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestCandidateFromFieldsTime(t *testing.T) {
	unix := candidateFromFields("x", map[string]string{"created_at": "1750000000"})
	if unix.CreatedAt.IsZero() {
		t.Error("unix seconds not parsed")
	}

	rfc := candidateFromFields("x", map[string]string{"created_at": "2026-01-15T10:00:00Z"})
	want := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	if !rfc.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", rfc.CreatedAt, want)
	}

	junk := candidateFromFields("x", map[string]string{"created_at": "yesterday"})
	if !junk.CreatedAt.IsZero() {
		t.Errorf("junk timestamp parsed to %v", junk.CreatedAt)
	}
}

func TestBuildOverrideFilterEmpty(t *testing.T) {
	if got := buildOverrideFilter(domain.Overrides{}); got != "" {
		t.Errorf("filter = %q, want empty", got)
	}
}

func TestTagClauseEscapes(t *testing.T) {
	got := tagClause("category", []string{"red wine", "semi-dry"})
	want := `@category:{red\ wine|semi\-dry}`
	if got != want {
		t.Errorf("clause = %q, want %q", got, want)
	}
}
