package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/dmitrijs2005/gopherblog/internal/dbx"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

const (
	insertSQL = `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)`
	findSQL = `
		SELECT user_id, token, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1`
	consumeSQL      = `DELETE FROM refresh_tokens WHERE token = $1`
	deleteByUserSQL = `DELETE FROM refresh_tokens WHERE user_id = $1`
	purgeSQL        = `DELETE FROM refresh_tokens WHERE expires_at < $1`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if _, err := r.db.ExecContext(ctx, insertSQL, userID, token, time.Now().Add(validity)); err != nil {
		return dbx.Classify(err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.db.QueryRowContext(ctx, findSQL, token).Scan(&rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrorNotFound
	case err != nil:
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rt, nil
}

func (r *PostgresRepository) Consume(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, consumeSQL, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireAffected(res)
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, deleteByUserSQL, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeSQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
