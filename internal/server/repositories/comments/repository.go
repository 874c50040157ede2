// Package comments declares the comment store contract.
package comments

import (
	"context"

	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

type Repository interface {
	// Create fails with common.ErrorNotFound when the post or author is gone.
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	// ListByPost returns comments oldest first.
	ListByPost(ctx context.Context, postID string) ([]*models.CommentWithAuthor, error)
	// ListByAuthor returns comments newest first with the parent post title.
	ListByAuthor(ctx context.Context, authorID string) ([]*models.CommentWithAuthorAndPostTitle, error)
	GetByID(ctx context.Context, id string) (*models.CommentWithAuthor, error)
	GetForUpdate(ctx context.Context, id string) (*models.Comment, error)
	UpdateContent(ctx context.Context, id string, content string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) (int64, error)
	DeleteByAuthor(ctx context.Context, authorID string) (int64, error)
	// DeleteOnPostsOf removes every comment on posts written by authorID.
	DeleteOnPostsOf(ctx context.Context, authorID string) (int64, error)
}
