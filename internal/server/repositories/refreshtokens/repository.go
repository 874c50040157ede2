// Package refreshtokens stores the long-lived half of a login token pair.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is unknown.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Consume deletes the token and returns common.ErrorNotFound when it
	// was already used, so two concurrent refreshes cannot both succeed.
	Consume(ctx context.Context, token string) error

	// DeleteByUser revokes every session of the user.
	DeleteByUser(ctx context.Context, userID string) error

	// PurgeExpired removes tokens that expired before cutoff.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
