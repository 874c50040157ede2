package likes

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gopherblog/internal/dbx"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, like *models.Like) (*models.Like, error) {
	query :=
		`INSERT INTO likes (id, user_id, post_id)
		 VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	if err := r.db.QueryRowContext(ctx, query, like.ID, like.UserID, like.PostID).Scan(&like.CreatedAt); err != nil {
		return nil, dbx.Classify(err)
	}
	return like, nil
}

func (r *PostgresRepository) DeletePair(ctx context.Context, userID, postID string) (int64, error) {
	query :=
		`DELETE FROM likes
		 WHERE user_id = $1 AND post_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, userID, postID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func (r *PostgresRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, postID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	query := `SELECT COUNT(*) FROM likes WHERE post_id = $1`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID string) ([]*models.LikeWithUser, error) {
	query := `
	SELECT l.id, l.user_id, l.post_id, l.created_at,
	       u.username, u.email, u.avatar
	FROM likes l
	JOIN users u ON u.id = l.user_id
	WHERE l.post_id = $1
	ORDER BY l.created_at DESC, l.seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.LikeWithUser, 0)
	for rows.Next() {
		l := &models.LikeWithUser{}
		var avatar sql.NullString
		if err := rows.Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt, &l.UserName, &l.Email, &avatar); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if avatar.Valid {
			l.UserAvatar = &avatar.String
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.LikeWithPostTitle, error) {
	query := `
	SELECT l.id, l.user_id, l.post_id, l.created_at,
	       u.username, u.email, u.avatar,
	       p.title
	FROM likes l
	JOIN users u ON u.id = l.user_id
	JOIN posts p ON p.id = l.post_id
	WHERE l.user_id = $1
	ORDER BY l.created_at DESC, l.seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.LikeWithPostTitle, 0)
	for rows.Next() {
		l := &models.LikeWithPostTitle{}
		var avatar sql.NullString
		if err := rows.Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt, &l.UserName, &l.Email, &avatar, &l.PostTitle); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if avatar.Valid {
			l.UserAvatar = &avatar.String
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM likes WHERE post_id = $1`, postID)
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM likes WHERE user_id = $1`, userID)
}

func (r *PostgresRepository) DeleteOnPostsOf(ctx context.Context, authorID string) (int64, error) {
	return r.deleteWhere(ctx,
		`DELETE FROM likes WHERE post_id IN (SELECT id FROM posts WHERE user_id = $1)`, authorID)
}

func (r *PostgresRepository) deleteWhere(ctx context.Context, query string, arg string) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func affected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
