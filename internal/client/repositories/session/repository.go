// Package session persists the logged-in user's credentials as key/value
// pairs in the local SQLite state database.
package session

import "context"

type Repository interface {
	// Get returns the value under key, or "" when it is not set.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
