package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an existing rueidis client (usually a mock) in a Store.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
