// Package chi hosts the HTTP API: the search endpoint plus health and
// metrics surfaces.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/geffen-cloud/vintner/internal/domain"
	healthuc "github.com/geffen-cloud/vintner/internal/usecase/health"
)

// Searcher runs the search pipeline.
type Searcher interface {
	Search(ctx context.Context, q domain.Query) (domain.Result, error)
}

// Server implements the HTTP API.
type Server struct {
	search          Searcher
	health          *healthuc.Service
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
}

// NewServer creates an HTTP API server.
func NewServer(search Searcher, health *healthuc.Service, logger *zap.Logger, defaultPage, maxPage int) *Server {
	if defaultPage <= 0 {
		defaultPage = 20
	}
	if maxPage <= 0 {
		maxPage = 100
	}
	return &Server{
		search:          search,
		health:          health,
		logger:          logger,
		defaultPageSize: defaultPage,
		maxPageSize:     maxPage,
	}
}

// Routes returns the API route tree.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/{tenant}/search", s.handleSearch)
	return r
}

// --- Wire types ---

type searchRequest struct {
	Query     string   `json:"query"`
	Limit     int      `json:"limit,omitempty"`
	Offset    int      `json:"offset,omitempty"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	Countries []string `json:"countries,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	Kosher    *bool    `json:"kosher,omitempty"`
}

type itemResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Price          float64  `json:"price"`
	Categories     []string `json:"categories,omitempty"`
	SoftCategories []string `json:"soft_categories,omitempty"`
	Country        string   `json:"country,omitempty"`
	Region         string   `json:"region,omitempty"`
	Stock          int      `json:"stock"`
	Rating         float64  `json:"rating"`
	Kosher         bool     `json:"kosher"`
	Score          float64  `json:"score"`
	Promoted       bool     `json:"promoted,omitempty"`
	Pinned         bool     `json:"pinned,omitempty"`
}

type filtersResponse struct {
	Types      []string `json:"types,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Countries  []string `json:"countries,omitempty"`
	Regions    []string `json:"regions,omitempty"`
	Grapes     []string `json:"grapes,omitempty"`
	Sweetness  []string `json:"sweetness,omitempty"`
	SoftTags   []string `json:"soft_tags,omitempty"`
	Kosher     *bool    `json:"kosher,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
}

type metadataResponse struct {
	AppliedFilters filtersResponse    `json:"applied_filters"`
	RetrievalMode  string             `json:"retrieval_mode"`
	StageCounts    map[string]int     `json:"stage_counts"`
	TimingsMs      map[string]float64 `json:"timings_ms"`
}

type searchResponse struct {
	Items    []itemResponse   `json:"items"`
	Total    int              `json:"total"`
	Metadata metadataResponse `json:"metadata"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Handlers ---

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "query is required")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	q := domain.Query{
		Text:   req.Query,
		Tenant: tenant,
		Limit:  limit,
		Offset: req.Offset,
		Overrides: domain.Overrides{
			MinPrice:  req.MinPrice,
			MaxPrice:  req.MaxPrice,
			Countries: req.Countries,
			Colors:    req.Colors,
			Kosher:    req.Kosher,
		},
	}

	result, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(result))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = string(res)
	}

	writeJSON(w, status, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrCatalogUnavailable):
		s.logger.Error("catalog unavailable", zap.Error(err))
		writeError(w, http.StatusBadGateway, "catalog_unavailable", "catalog store is unavailable")
	default:
		s.logger.Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

// --- Converters ---

func toSearchResponse(res domain.Result) searchResponse {
	items := make([]itemResponse, len(res.Items))
	for i, c := range res.Items {
		items[i] = itemResponse{
			ID:             c.ID,
			Name:           c.Name,
			Description:    c.Description,
			Price:          c.Price,
			Categories:     c.Categories,
			SoftCategories: c.SoftCategories,
			Country:        c.Country,
			Region:         c.Region,
			Stock:          c.Stock,
			Rating:         c.Rating,
			Kosher:         c.Kosher,
			Score:          c.Score,
			Promoted:       c.Promoted,
			Pinned:         c.PromotedPin,
		}
	}

	timings := make(map[string]float64, len(res.Metadata.Timings))
	for stage, d := range res.Metadata.Timings {
		timings[stage] = float64(d) / float64(time.Millisecond)
	}

	f := res.Metadata.AppliedFilters

	return searchResponse{
		Items: items,
		Total: res.Total,
		Metadata: metadataResponse{
			AppliedFilters: filtersResponse{
				Types:      f.Types,
				Categories: f.Categories,
				Countries:  f.Countries,
				Regions:    f.Regions,
				Grapes:     f.Grapes,
				Sweetness:  f.Sweetness,
				SoftTags:   f.SoftTags,
				Kosher:     f.Kosher,
				MinPrice:   f.MinPrice,
				MaxPrice:   f.MaxPrice,
			},
			RetrievalMode: string(res.Metadata.RetrievalMode),
			StageCounts:   res.Metadata.StageCounts,
			TimingsMs:     timings,
		},
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
