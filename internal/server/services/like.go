package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
	"github.com/dmitrijs2005/gopherblog/internal/server/repositories/repomanager"
)

type LikeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLikeService(db *sql.DB, m repomanager.RepositoryManager) *LikeService {
	return &LikeService{db: db, repomanager: m}
}

// Toggle flips the like of actorID on postID and reports the resulting state.
//
// Statements run outside a transaction so that a unique violation does not
// poison anything: the unique (user_id, post_id) constraint is the only
// arbiter. A racing toggle that loses the insert sees common.ErrorConflict
// and reports liked=true, which is the state the store is in.
func (s *LikeService) Toggle(ctx context.Context, actorID, postID string) (*models.ToggleResult, error) {
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

	repo := s.repomanager.Likes(s.db)
	removed, err := repo.DeletePair(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		return &models.ToggleResult{Liked: false}, nil
	}

	like, err := repo.Create(ctx, &models.Like{ID: newID(), UserID: actorID, PostID: postID})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return &models.ToggleResult{Liked: true}, nil
		}
		return nil, err
	}
	return &models.ToggleResult{Liked: true, Like: like}, nil
}

func (s *LikeService) CountByPost(ctx context.Context, postID string) (int64, error) {
	if !validID(postID) {
		return 0, nil
	}
	return s.repomanager.Likes(s.db).CountByPost(ctx, postID)
}

func (s *LikeService) Status(ctx context.Context, actorID, postID string) (bool, error) {
	if !validID(postID) {
		return false, nil
	}
	return s.repomanager.Likes(s.db).Exists(ctx, actorID, postID)
}

func (s *LikeService) ListByPost(ctx context.Context, postID string) ([]*models.LikeWithUser, error) {
	if !validID(postID) {
		return []*models.LikeWithUser{}, nil
	}
	return s.repomanager.Likes(s.db).ListByPost(ctx, postID)
}

func (s *LikeService) ListByUser(ctx context.Context, userID string) ([]*models.LikeWithPostTitle, error) {
	if !validID(userID) {
		return []*models.LikeWithPostTitle{}, nil
	}
	return s.repomanager.Likes(s.db).ListByUser(ctx, userID)
}
