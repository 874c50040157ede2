// Package posts declares the post store contract. Read methods return
// posts enriched with author fields and live comment/like counts.
package posts

import (
	"context"

	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	// List orders by created_at then insertion order, newest first.
	// A non-positive Limit means no limit.
	List(ctx context.Context, filter models.PostFilter) ([]*models.PostWithAggregates, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.PostWithAggregates, error)
	GetByID(ctx context.Context, id string) (*models.PostWithAggregates, error)
	// GetForUpdate loads the bare post and row-locks it until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, upd *models.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	DeleteByAuthor(ctx context.Context, authorID string) (int64, error)
}
