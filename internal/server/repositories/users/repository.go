// Package users declares the identity store contract.
package users

import (
	"context"

	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

type Repository interface {
	// Create inserts the user. A taken email yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail returns the user including its password hash.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetPasswordHash(ctx context.Context, id string) (string, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, hash string) error
	Delete(ctx context.Context, id string) error
}
