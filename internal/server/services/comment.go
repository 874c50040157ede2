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

type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager) *CommentService {
	return &CommentService{db: db, repomanager: m}
}

// Create adds a comment to an existing post and returns it with the
// author's display fields.
func (s *CommentService) Create(ctx context.Context, actorID, postID, content string) (*models.CommentWithAuthor, error) {
	if blank(content) {
		return nil, fmt.Errorf("%w: content is required", common.ErrorValidation)
	}
	if !validID(postID) {
		return nil, fmt.Errorf("%w: post %s", common.ErrorNotFound, postID)
	}

	ok, err := s.repomanager.Posts(s.db).Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: post %s", common.ErrorNotFound, postID)
	}

	repo := s.repomanager.Comments(s.db)
	c, err := repo.Create(ctx, &models.Comment{
		ID:      newID(),
		Content: content,
		UserID:  actorID,
		PostID:  postID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return repo.GetByID(ctx, c.ID)
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]*models.CommentWithAuthor, error) {
	if !validID(postID) {
		return []*models.CommentWithAuthor{}, nil
	}
	return s.repomanager.Comments(s.db).ListByPost(ctx, postID)
}

func (s *CommentService) ListByAuthor(ctx context.Context, authorID string) ([]*models.CommentWithAuthorAndPostTitle, error) {
	if !validID(authorID) {
		return []*models.CommentWithAuthorAndPostTitle{}, nil
	}
	return s.repomanager.Comments(s.db).ListByAuthor(ctx, authorID)
}

func (s *CommentService) GetByID(ctx context.Context, id string) (*models.CommentWithAuthor, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Comments(s.db).GetByID(ctx, id)
}

func (s *CommentService) Update(ctx context.Context, id, actorID, content string) (*models.Comment, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	var updated *models.Comment
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Comments(tx)
		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(current, actorID); err != nil {
			return err
		}
		if blank(content) {
			return fmt.Errorf("%w: content is required", common.ErrorValidation)
		}
		updated, err = repo.UpdateContent(ctx, id, content)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, id, actorID string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Comments(tx)
		current, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(current, actorID); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}
