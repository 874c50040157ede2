package posts

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

// Counts come from pre-aggregated subqueries joined with LEFT JOIN, so posts
// without comments or likes report 0 and the two counts never multiply.
const selectWithAggregates = `
	SELECT p.id, p.title, p.content, p.image, p.user_id, p.created_at, p.updated_at,
	       u.username, u.email, u.avatar,
	       COALESCE(c.comment_count, 0) AS comment_count,
	       COALESCE(l.like_count, 0) AS like_count
	FROM posts p
	JOIN users u ON u.id = p.user_id
	LEFT JOIN (SELECT post_id, COUNT(*) AS comment_count FROM comments GROUP BY post_id) c
	       ON c.post_id = p.id
	LEFT JOIN (SELECT post_id, COUNT(*) AS like_count FROM likes GROUP BY post_id) l
	       ON l.post_id = p.id
`

const postColumns = `id, title, content, image, user_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	p := &models.Post{}
	var image sql.NullString
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &image, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if image.Valid {
		p.Image = &image.String
	}
	return p, nil
}

func scanPostWithAggregates(row rowScanner) (*models.PostWithAggregates, error) {
	p := &models.PostWithAggregates{}
	var image, avatar sql.NullString
	err := row.Scan(&p.ID, &p.Title, &p.Content, &image, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
		&p.UserName, &p.Email, &avatar,
		&p.CommentCount, &p.LikeCount)
	if err != nil {
		return nil, err
	}
	if image.Valid {
		p.Image = &image.String
	}
	if avatar.Valid {
		p.UserAvatar = &avatar.String
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`INSERT INTO posts (id, title, content, image, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, post.ID, post.Title, post.Content, post.Image, post.UserID).
		Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return post, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.PostFilter) ([]*models.PostWithAggregates, error) {
	var author, limit any
	if filter.AuthorID != "" {
		author = filter.AuthorID
	}
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	query := selectWithAggregates + `
	WHERE ($1::uuid IS NULL OR p.user_id = $1::uuid)
	ORDER BY p.created_at DESC, p.seq DESC
	LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, author, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.PostWithAggregates, 0)
	for rows.Next() {
		p, err := scanPostWithAggregates(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.PostWithAggregates, error) {
	return r.List(ctx, models.PostFilter{AuthorID: authorID})
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.PostWithAggregates, error) {
	query := selectWithAggregates + `
	WHERE p.id = $1
	`

	p, err := scanPostWithAggregates(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + `
		 FROM posts
		 WHERE id = $1
		 FOR UPDATE
		 `

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Update applies a partial update and bumps updated_at. An empty image clears it.
func (r *PostgresRepository) Update(ctx context.Context, id string, upd *models.PostUpdate) (*models.Post, error) {
	query :=
		`UPDATE posts SET
		   title = COALESCE($2, title),
		   content = COALESCE($3, content),
		   image = CASE WHEN $4::text IS NULL THEN image ELSE NULLIF($4::text, '') END,
		   updated_at = now()
		 WHERE id = $1
		 RETURNING ` + postColumns

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id, upd.Title, upd.Content, upd.Image))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

// Delete removes the post row only. Comments and likes referencing it must
// be deleted first in the same transaction.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM posts
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return dbx.Classify(err)
	}
	return dbx.RequireAffected(res)
}

func (r *PostgresRepository) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	query :=
		`DELETE FROM posts
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, authorID)
	if err != nil {
		// A 23503 here means a comment or like raced onto one of the posts;
		// that is not a missing row.
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
