// Package likes declares the like store contract. The (user_id, post_id)
// pair is unique; a duplicate Create fails with common.ErrorConflict.
package likes

import (
	"context"

	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, like *models.Like) (*models.Like, error)
	// DeletePair removes the like for the pair and reports how many rows went.
	DeletePair(ctx context.Context, userID, postID string) (int64, error)
	Exists(ctx context.Context, userID, postID string) (bool, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	ListByPost(ctx context.Context, postID string) ([]*models.LikeWithUser, error)
	ListByUser(ctx context.Context, userID string) ([]*models.LikeWithPostTitle, error)
	DeleteByPost(ctx context.Context, postID string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	// DeleteOnPostsOf removes every like on posts written by authorID.
	DeleteOnPostsOf(ctx context.Context, authorID string) (int64, error)
}
