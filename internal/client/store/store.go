// Package store owns the client's local SQLite database and exposes the
// saved login session.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/gopherblog/internal/client/migrations"
	"github.com/dmitrijs2005/gopherblog/internal/client/repositories/session"
	"github.com/dmitrijs2005/gopherblog/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const dbFileName = "blogctl.db"

const (
	keyUserID       = "user_id"
	keyUserName     = "username"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// Session is what a successful login leaves behind.
type Session struct {
	UserID       string
	UserName     string
	AccessToken  string
	RefreshToken string
}

// LoggedIn reports whether s carries an access token.
func (s *Session) LoggedIn() bool {
	return s != nil && s.AccessToken != ""
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the state database inside dir and applies
// migrations.
func Open(ctx context.Context, dir string) (*Store, error) {
	return OpenDSN(ctx, filepath.Join(dir, dbFileName))
}

// OpenDSN is Open for an explicit sqlite DSN, e.g. ":memory:" in tests.
func OpenDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate state db: %w", err)
	}
	return &Store{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored session atomically.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := session.NewSQLiteRepository(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		for k, v := range map[string]string{
			keyUserID:       sess.UserID,
			keyUserName:     sess.UserName,
			keyAccessToken:  sess.AccessToken,
			keyRefreshToken: sess.RefreshToken,
		} {
			if err := repo.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateTokens swaps the token pair after a refresh, keeping the identity.
func (s *Store) UpdateTokens(ctx context.Context, access, refresh string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := session.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyAccessToken, access); err != nil {
			return err
		}
		return repo.Set(ctx, keyRefreshToken, refresh)
	})
}

// Load returns the stored session; an empty Session means logged out.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	repo := session.NewSQLiteRepository(s.db)
	sess := &Session{}
	for key, dst := range map[string]*string{
		keyUserID:       &sess.UserID,
		keyUserName:     &sess.UserName,
		keyAccessToken:  &sess.AccessToken,
		keyRefreshToken: &sess.RefreshToken,
	} {
		v, err := repo.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		*dst = v
	}
	return sess, nil
}

// Clear forgets the session.
func (s *Store) Clear(ctx context.Context) error {
	return session.NewSQLiteRepository(s.db).Clear(ctx)
}
