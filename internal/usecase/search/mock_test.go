package search

import (
	"context"

	"github.com/geffen-cloud/vintner/internal/domain"
)

// --- Catalog mock ---

type mockCatalog struct {
	textResults []domain.Candidate
	textErr     error
	textCalled  bool

	vectorResults []domain.Candidate
	vectorErr     error
	vectorCalled  bool

	categoryResults []domain.Candidate
	categoryErr     error
	categoryCalled  bool
	categoryTokens  []string

	softTagResults []domain.Candidate
	softTagErr     error
	softTagCalled  bool

	idResults []domain.Candidate
	idErr     error
	idCalled  bool
	lastIDs   []string
}

func (m *mockCatalog) TextSearch(
	_ context.Context, _, _ string, _ domain.Overrides, _ int,
) ([]domain.Candidate, error) {
	m.textCalled = true
	return m.textResults, m.textErr
}

func (m *mockCatalog) VectorSearch(
	_ context.Context, _ string, _ []float32, _ domain.Overrides, _ int,
) ([]domain.Candidate, error) {
	m.vectorCalled = true
	return m.vectorResults, m.vectorErr
}

func (m *mockCatalog) FetchByCategory(
	_ context.Context, _ string, tokens []string, _ int,
) ([]domain.Candidate, error) {
	m.categoryCalled = true
	m.categoryTokens = tokens
	return m.categoryResults, m.categoryErr
}

func (m *mockCatalog) FetchBySoftTags(
	_ context.Context, _ string, _ []string, _ int,
) ([]domain.Candidate, error) {
	m.softTagCalled = true
	return m.softTagResults, m.softTagErr
}

func (m *mockCatalog) FetchByIDs(
	_ context.Context, _ string, ids []string,
) ([]domain.Candidate, error) {
	m.idCalled = true
	m.lastIDs = ids
	return m.idResults, m.idErr
}

// --- Embedder mock ---

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.called = true
	return m.vec, m.err
}

// --- EntityExtractor mock ---

type mockNER struct {
	extraction Extraction
	err        error
	called     bool
}

func (m *mockNER) Extract(_ context.Context, _ string) (Extraction, error) {
	m.called = true
	return m.extraction, m.err
}

// --- RuleSource mock ---

type mockRules struct {
	rules  []domain.BoostRule
	err    error
	called bool
}

func (m *mockRules) GetRelevantRules(_ context.Context, _, _ string) ([]domain.BoostRule, error) {
	m.called = true
	return m.rules, m.err
}
