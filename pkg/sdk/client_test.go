package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq SearchRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Items: []Item{{ID: "w1", Name: "Barolo", Score: 0.9}},
			Total: 1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	resp, err := c.Search(context.Background(), "acme", SearchRequest{Query: "dry red", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v1/acme/search" {
		t.Errorf("path = %q, want /v1/acme/search", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotReq.Query != "dry red" || gotReq.Limit != 10 {
		t.Errorf("unexpected request body: %+v", gotReq)
	}
	if resp.Total != 1 || len(resp.Items) != 1 || resp.Items[0].ID != "w1" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestSearch_NoAuthHeaderWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected auth header %q", h)
		}
		_ = json.NewEncoder(w).Encode(SearchResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if _, err := c.Search(context.Background(), "acme", SearchRequest{Query: "red"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_TenantIsPathEscaped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/v1/acme%2Fshop/search" {
			t.Errorf("escaped path = %q", r.URL.EscapedPath())
		}
		_ = json.NewEncoder(w).Encode(SearchResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if _, err := c.Search(context.Background(), "acme/shop", SearchRequest{Query: "red"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "catalog_unavailable",
			"message": "catalog is unavailable",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Search(context.Background(), "acme", SearchRequest{Query: "red"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Code != "catalog_unavailable" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
}

func TestSearch_APIErrorUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Search(context.Background(), "acme", SearchRequest{Query: "red"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Error() == "" {
		t.Error("expected non-empty error string")
	}
}
