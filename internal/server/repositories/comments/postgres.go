package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/dmitrijs2005/gopherblog/internal/dbx"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectWithAuthor = `
	SELECT c.id, c.content, c.user_id, c.post_id, c.created_at,
	       u.username, u.email, u.avatar
	FROM comments c
	JOIN users u ON u.id = c.user_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWithAuthor(row rowScanner, extra ...any) (*models.CommentWithAuthor, error) {
	c := &models.CommentWithAuthor{}
	var avatar sql.NullString
	dest := append([]any{&c.ID, &c.Content, &c.UserID, &c.PostID, &c.CreatedAt,
		&c.UserName, &c.Email, &avatar}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if avatar.Valid {
		c.UserAvatar = &avatar.String
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query :=
		`INSERT INTO comments (id, content, user_id, post_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, comment.ID, comment.Content, comment.UserID, comment.PostID).
		Scan(&comment.CreatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return comment, nil
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID string) ([]*models.CommentWithAuthor, error) {
	query := selectWithAuthor + `
	WHERE c.post_id = $1
	ORDER BY c.created_at ASC, c.seq ASC
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.CommentWithAuthor, 0)
	for rows.Next() {
		c, err := scanWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.CommentWithAuthorAndPostTitle, error) {
	query := `
	SELECT c.id, c.content, c.user_id, c.post_id, c.created_at,
	       u.username, u.email, u.avatar,
	       p.title
	FROM comments c
	JOIN users u ON u.id = c.user_id
	JOIN posts p ON p.id = c.post_id
	WHERE c.user_id = $1
	ORDER BY c.created_at DESC, c.seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.CommentWithAuthorAndPostTitle, 0)
	for rows.Next() {
		var title string
		c, err := scanWithAuthor(rows, &title)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, &models.CommentWithAuthorAndPostTitle{
			Comment:   c.Comment,
			Author:    c.Author,
			PostTitle: title,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.CommentWithAuthor, error) {
	query := selectWithAuthor + `
	WHERE c.id = $1
	`

	c, err := scanWithAuthor(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Comment, error) {
	query :=
		`SELECT id, content, user_id, post_id, created_at
		 FROM comments
		 WHERE id = $1
		 FOR UPDATE
		 `

	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Content, &c.UserID, &c.PostID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id string, content string) (*models.Comment, error) {
	query :=
		`UPDATE comments SET content = $2
		 WHERE id = $1
		 RETURNING id, content, user_id, post_id, created_at
		 `

	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id, content).Scan(&c.ID, &c.Content, &c.UserID, &c.PostID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM comments
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}

func (r *PostgresRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM comments WHERE post_id = $1`, postID)
}

func (r *PostgresRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	return r.deleteWhere(ctx, `DELETE FROM comments WHERE user_id = $1`, authorID)
}

func (r *PostgresRepository) DeleteOnPostsOf(ctx context.Context, authorID string) (int64, error) {
	return r.deleteWhere(ctx,
		`DELETE FROM comments WHERE post_id IN (SELECT id FROM posts WHERE user_id = $1)`, authorID)
}

func (r *PostgresRepository) deleteWhere(ctx context.Context, query string, arg string) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
