package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/geffen-cloud/vintner/internal/domain"
	healthuc "github.com/geffen-cloud/vintner/internal/usecase/health"
)

// --- Mocks ---

type mockSearcher struct {
	result    domain.Result
	err       error
	lastQuery domain.Query
}

func (m *mockSearcher) Search(_ context.Context, q domain.Query) (domain.Result, error) {
	m.lastQuery = q
	return m.result, m.err
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestServer(search *mockSearcher) *Server {
	health := healthuc.New(okPinger{}, nil)
	return NewServer(search, health, zap.NewNop(), 20, 100)
}

func doSearch(t *testing.T, srv *Server, tenant, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/"+tenant+"/search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func TestHandleSearch(t *testing.T) {
	search := &mockSearcher{result: domain.Result{
		Items: []domain.Candidate{{
			ID: "p1", Name: "Yarden Merlot", Price: 89.9, Score: 0.7,
			Promoted: true, PromotedPin: true,
		}},
		Total: 1,
		Metadata: domain.Metadata{
			RetrievalMode: domain.ModeHybrid,
			StageCounts:   map[string]int{"merge": 1},
			Timings:       map[string]time.Duration{"merge": 2 * time.Millisecond},
		},
	}}
	srv := newTestServer(search)

	rec := doSearch(t, srv, "t1", `{"query":"red wine","limit":5}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if search.lastQuery.Tenant != "t1" || search.lastQuery.Limit != 5 {
		t.Errorf("query = %+v", search.lastQuery)
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	item := resp.Items[0]
	if item.ID != "p1" || !item.Pinned || !item.Promoted {
		t.Errorf("item = %+v", item)
	}
	if resp.Metadata.RetrievalMode != "hybrid" {
		t.Errorf("mode = %s", resp.Metadata.RetrievalMode)
	}
	if resp.Metadata.TimingsMs["merge"] != 2 {
		t.Errorf("timings = %v", resp.Metadata.TimingsMs)
	}
}

func TestHandleSearchDefaultsAndCapsLimit(t *testing.T) {
	search := &mockSearcher{}
	srv := newTestServer(search)

	doSearch(t, srv, "t1", `{"query":"wine"}`)
	if search.lastQuery.Limit != 20 {
		t.Errorf("default limit = %d, want 20", search.lastQuery.Limit)
	}

	doSearch(t, srv, "t1", `{"query":"wine","limit":500}`)
	if search.lastQuery.Limit != 100 {
		t.Errorf("capped limit = %d, want 100", search.lastQuery.Limit)
	}
}

func TestHandleSearchBadBody(t *testing.T) {
	srv := newTestServer(&mockSearcher{})

	rec := doSearch(t, srv, "t1", `{"query":`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSearchMissingQuery(t *testing.T) {
	srv := newTestServer(&mockSearcher{})

	rec := doSearch(t, srv, "t1", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSearchErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid query", domain.ErrInvalidQuery, http.StatusBadRequest},
		{"catalog unavailable", domain.ErrCatalogUnavailable, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&mockSearcher{err: tt.err})

			rec := doSearch(t, srv, "t1", `{"query":"wine"}`)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code == "" {
				t.Error("error response missing code")
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&mockSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	srv := newTestServer(&mockSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestBearerAuth(t *testing.T) {
	srv := newTestServer(&mockSearcher{})

	handler := BearerAuthMiddleware([]string{"secret"})(srv.Routes())

	// Missing token on an API route.
	req := httptest.NewRequest(http.MethodPost, "/v1/t1/search", strings.NewReader(`{"query":"wine"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	// Wrong token.
	req = httptest.NewRequest(http.MethodPost, "/v1/t1/search", strings.NewReader(`{"query":"wine"}`))
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rec.Code)
	}

	// Valid token.
	req = httptest.NewRequest(http.MethodPost, "/v1/t1/search", strings.NewReader(`{"query":"wine"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("good token: status = %d, want 200", rec.Code)
	}

	// Probes skip auth.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz: status = %d, want 200", rec.Code)
	}
}

func TestBearerAuthDisabledWithoutKeys(t *testing.T) {
	srv := newTestServer(&mockSearcher{})
	handler := BearerAuthMiddleware(nil)(srv.Routes())

	req := httptest.NewRequest(http.MethodPost, "/v1/t1/search", strings.NewReader(`{"query":"wine"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with auth disabled", rec.Code)
	}
}
