package domain

import "fmt"

// Overrides are explicit request-level constraints supplied by the caller.
// Unlike parsed filters they are always trusted and restrict retrieval
// directly at the store.
type Overrides struct {
	MinPrice  *float64
	MaxPrice  *float64
	Countries []string
	Colors    []string
	Kosher    *bool
}

// Empty reports whether no override is set.
func (o Overrides) Empty() bool {
	return o.MinPrice == nil && o.MaxPrice == nil &&
		len(o.Countries) == 0 && len(o.Colors) == 0 && o.Kosher == nil
}

// Query is a single search request.
type Query struct {
	Text   string
	Tenant string
	Limit  int
	Offset int

	Overrides Overrides
}

// Validate checks the request invariants: limit > 0, offset >= 0, tenant set.
func (q Query) Validate() error {
	if q.Tenant == "" {
		return fmt.Errorf("%w: tenant is required", ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidQuery, q.Limit)
	}
	if q.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidQuery, q.Offset)
	}
	if q.Overrides.MinPrice != nil && q.Overrides.MaxPrice != nil &&
		*q.Overrides.MinPrice > *q.Overrides.MaxPrice {
		return fmt.Errorf("%w: min_price exceeds max_price", ErrInvalidQuery)
	}
	return nil
}
