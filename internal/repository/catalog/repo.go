// Package catalog adapts the Redis Query Engine store to the pipeline's
// Catalog contract: BM25 for the lexical channel, KNN for the semantic
// channel, and direct tag/id fetches for the fallback paths.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geffen-cloud/vintner/internal/db"
	"github.com/geffen-cloud/vintner/internal/domain"
)

// store is the consumer interface for catalog reads (ISP).
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchTags(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements usecase/search.Catalog.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a catalog repository. keyPrefix namespaces all tenant data,
// e.g. "vintner:".
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) indexName(tenant string) string {
	return fmt.Sprintf("%scatalog:%s:idx", r.keyPrefix, tenant)
}

func (r *Repo) docPrefix(tenant string) string {
	return fmt.Sprintf("%scatalog:%s:", r.keyPrefix, tenant)
}

// TextSearch runs the lexical channel, restricted only by explicit
// request-level overrides.
func (r *Repo) TextSearch(
	ctx context.Context, tenant, query string,
	overrides domain.Overrides, limit int,
) ([]domain.Candidate, error) {
	q := &db.TextQuery{
		IndexName:    r.indexName(tenant),
		Query:        query,
		Filter:       buildOverrideFilter(overrides),
		TopK:         limit,
		ReturnFields: candidateFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, classify("text search", tenant, err)
	}

	prefix := r.docPrefix(tenant)
	out := make([]domain.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		c := candidateFromFields(strings.TrimPrefix(entry.Key, prefix), entry.Fields)
		c.TextScore = normalizeBM25(entry.Score)
		out = append(out, c)
	}
	return out, nil
}

// VectorSearch runs the semantic channel over the query embedding.
func (r *Repo) VectorSearch(
	ctx context.Context, tenant string, vector []float32,
	overrides domain.Overrides, limit int,
) ([]domain.Candidate, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName(tenant),
		Vector:       vector,
		Filter:       buildOverrideFilter(overrides),
		K:            limit,
		ReturnFields: candidateFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, classify("vector search", tenant, err)
	}

	prefix := r.docPrefix(tenant)
	out := make([]domain.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		c := candidateFromFields(strings.TrimPrefix(entry.Key, prefix), entry.Fields)
		c.SemanticScore = entry.Score
		out = append(out, c)
	}
	return out, nil
}

// FetchByCategory returns items carrying any of the category tokens.
func (r *Repo) FetchByCategory(
	ctx context.Context, tenant string, tokens []string, limit int,
) ([]domain.Candidate, error) {
	return r.fetchByTag(ctx, tenant, "category", tokens, limit)
}

// FetchBySoftTags returns items carrying any of the soft tags.
func (r *Repo) FetchBySoftTags(
	ctx context.Context, tenant string, tags []string, limit int,
) ([]domain.Candidate, error) {
	return r.fetchByTag(ctx, tenant, "soft_category", tags, limit)
}

func (r *Repo) fetchByTag(
	ctx context.Context, tenant, field string, values []string, limit int,
) ([]domain.Candidate, error) {
	q := &db.TagQuery{
		IndexName:    r.indexName(tenant),
		Field:        field,
		Values:       values,
		Limit:        limit,
		ReturnFields: candidateFields,
	}

	sr, err := r.store.SearchTags(ctx, q)
	if err != nil {
		return nil, classify("tag fetch", tenant, err)
	}

	prefix := r.docPrefix(tenant)
	out := make([]domain.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		out = append(out, candidateFromFields(strings.TrimPrefix(entry.Key, prefix), entry.Fields))
	}
	return out, nil
}

// FetchByIDs returns the items with the given ids, skipping missing ones.
func (r *Repo) FetchByIDs(ctx context.Context, tenant string, ids []string) ([]domain.Candidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	prefix := r.docPrefix(tenant)
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = prefix + id
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, classify("fetch by ids", tenant, err)
	}

	out := make([]domain.Candidate, 0, len(maps))
	for i, fields := range maps {
		if len(fields) == 0 {
			continue // missing item
		}
		out = append(out, candidateFromFields(ids[i], fields))
	}
	return out, nil
}

// classify maps transport-level store failures onto the domain's
// catalog-unavailable class; command errors pass through for callers to
// degrade on.
func classify(op, tenant string, err error) error {
	if errors.Is(err, db.ErrUnavailable) {
		return fmt.Errorf("%s %s: %w: %w", op, tenant, domain.ErrCatalogUnavailable, err)
	}
	return fmt.Errorf("%s %s: %w", op, tenant, err)
}
