// Package services contains server-side business logic. Services own
// transactions; repositories are bound to either the pool or a tx.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/dmitrijs2005/gopherblog/internal/dbx"
	"github.com/dmitrijs2005/gopherblog/internal/server/auth"
	"github.com/dmitrijs2005/gopherblog/internal/server/config"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
	"github.com/dmitrijs2005/gopherblog/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Session is what registration and login hand back to the client.
type Session struct {
	User *models.PublicUser `json:"user"`
	TokenPair
}

// UserService is the identity store plus the credential service: accounts,
// passwords, access tokens and refresh token rotation.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates the account and its first session in one transaction.
// A taken email yields common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, username, email, password string, avatar *string) (*Session, error) {
	email = normalizeEmail(email)
	if blank(username) || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", common.ErrorValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           newID(),
		UserName:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
		Avatar:       nonBlank(avatar),
	}

	var session *Session
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrorConflict) {
				return fmt.Errorf("%w: email already registered", common.ErrorConflict)
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		pair, err := s.generateTokenPair(ctx, u, tx)
		if err != nil {
			return err
		}
		session = &Session{User: u.Public(), TokenPair: *pair}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Login verifies the password and issues a fresh token pair. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, err
	}
	return &Session{User: user.Public(), TokenPair: *pair}, nil
}

// RefreshToken validates a refresh token, rotates it transactionally and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		if err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorUnauthorized
			}
			return nil, fmt.Errorf("error consuming refresh token: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorUnauthorized
			}
			return nil, fmt.Errorf("error loading user: %w", err)
		}
		return s.generateTokenPair(ctx, user, tx)
	})
}

// PurgeExpiredSessions drops refresh tokens whose validity has elapsed.
func (s *UserService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repomanager.RefreshTokens(s.db).PurgeExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("error purging refresh tokens: %w", err)
	}
	return n, nil
}

// Authenticate resolves an access token to the actor's user ID.
func (s *UserService) Authenticate(token string) (string, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return userID, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.PublicUser, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

func (s *UserService) List(ctx context.Context) ([]*models.PublicUser, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*models.PublicUser, 0, len(list))
	for _, u := range list {
		result = append(result, u.Public())
	}
	return result, nil
}

// UpdateProfile applies a partial update to the actor's own record. Blank
// username or email are left unchanged; an empty avatar clears it.
func (s *UserService) UpdateProfile(ctx context.Context, actorID string, upd *models.UserUpdate) (*models.PublicUser, error) {
	clean := &models.UserUpdate{
		UserName: nonBlank(upd.UserName),
		Avatar:   upd.Avatar,
	}
	if upd.Email != nil {
		if e := normalizeEmail(*upd.Email); e != "" {
			clean.Email = &e
		}
	}
	if clean.UserName != nil {
		name := strings.TrimSpace(*clean.UserName)
		clean.UserName = &name
	}

	u, err := s.repomanager.Users(s.db).Update(ctx, actorID, clean)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, fmt.Errorf("%w: email already registered", common.ErrorConflict)
		}
		return nil, err
	}
	return u.Public(), nil
}

// ChangePassword replaces the password after checking the current one and
// revokes every refresh token of the account.
func (s *UserService) ChangePassword(ctx context.Context, actorID, current, next string) error {
	if current == "" || next == "" {
		return fmt.Errorf("%w: current and new password are required", common.ErrorValidation)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)
		hash, err := users.GetPasswordHash(ctx, actorID)
		if err != nil {
			return err
		}
		if !auth.VerifyPassword(current, hash) {
			return fmt.Errorf("%w: current password does not match", common.ErrorUnauthorized)
		}
		newHash, err := auth.HashPassword(next)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}
		if err := users.UpdatePassword(ctx, actorID, newHash); err != nil {
			return err
		}
		return s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, actorID)
	})
}

// Delete removes the account together with everything that references it:
// the user's likes and comments, likes and comments on the user's posts,
// the posts, refresh tokens and finally the user row.
func (s *UserService) Delete(ctx context.Context, actorID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		likes := s.repomanager.Likes(tx)
		comments := s.repomanager.Comments(tx)

		if _, err := likes.DeleteByUser(ctx, actorID); err != nil {
			return err
		}
		if _, err := comments.DeleteByAuthor(ctx, actorID); err != nil {
			return err
		}
		if _, err := likes.DeleteOnPostsOf(ctx, actorID); err != nil {
			return err
		}
		if _, err := comments.DeleteOnPostsOf(ctx, actorID); err != nil {
			return err
		}
		if _, err := s.repomanager.Posts(tx).DeleteByAuthor(ctx, actorID); err != nil {
			return err
		}
		if err := s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, actorID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, actorID)
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
