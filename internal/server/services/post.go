package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/dmitrijs2005/gopherblog/internal/dbx"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
	"github.com/dmitrijs2005/gopherblog/internal/server/repositories/repomanager"
)

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

func (s *PostService) Create(ctx context.Context, actorID, title, content string, image *string) (*models.Post, error) {
	if blank(title) || blank(content) {
		return nil, fmt.Errorf("%w: title and content are required", common.ErrorValidation)
	}

	post := &models.Post{
		ID:      newID(),
		Title:   title,
		Content: content,
		Image:   nonBlank(image),
		UserID:  actorID,
	}
	p, err := s.repomanager.Posts(s.db).Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	return p, nil
}

// List returns one page of posts, newest first. A zero limit means
// common.DefaultPageSize. An author filter that cannot name a user
// matches nothing.
func (s *PostService) List(ctx context.Context, filter models.PostFilter) ([]*models.PostWithAggregates, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must be non-negative", common.ErrorValidation)
	}
	if filter.Limit == 0 {
		filter.Limit = common.DefaultPageSize
	}
	if filter.AuthorID != "" && !validID(filter.AuthorID) {
		return []*models.PostWithAggregates{}, nil
	}
	return s.repomanager.Posts(s.db).List(ctx, filter)
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]*models.PostWithAggregates, error) {
	if !validID(authorID) {
		return []*models.PostWithAggregates{}, nil
	}
	return s.repomanager.Posts(s.db).ListByAuthor(ctx, authorID)
}

func (s *PostService) GetByID(ctx context.Context, id string) (*models.PostWithAggregates, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Posts(s.db).GetByID(ctx, id)
}

// Update applies a partial update on behalf of actorID. Blank title or
// content are treated as unspecified; an empty image clears it.
func (s *PostService) Update(ctx context.Context, id, actorID string, upd *models.PostUpdate) (*models.Post, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	clean := &models.PostUpdate{
		Title:   nonBlank(upd.Title),
		Content: nonBlank(upd.Content),
		Image:   upd.Image,
	}

	var updated *models.Post
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)
		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(current, actorID); err != nil {
			return err
		}
		updated, err = repo.Update(ctx, id, clean)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the post with its likes and comments, all or nothing.
func (s *PostService) Delete(ctx context.Context, id, actorID string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		posts := s.repomanager.Posts(tx)
		current, err := posts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(current, actorID); err != nil {
			return err
		}
		if _, err := s.repomanager.Likes(tx).DeleteByPost(ctx, id); err != nil {
			return err
		}
		if _, err := s.repomanager.Comments(tx).DeleteByPost(ctx, id); err != nil {
			return err
		}
		return posts.Delete(ctx, id)
	})
}
