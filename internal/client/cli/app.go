// Package cli implements the blogctl command tree on top of the REST client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gopherblog/internal/client/apiclient"
	"github.com/dmitrijs2005/gopherblog/internal/client/config"
	"github.com/dmitrijs2005/gopherblog/internal/client/store"
	"github.com/dmitrijs2005/gopherblog/internal/filex"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

// API is the subset of apiclient.Client the commands use.
type API interface {
	SetTokens(access, refresh string)
	Register(ctx context.Context, username, email, password string) (*apiclient.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*apiclient.AuthResponse, error)
	ListPosts(ctx context.Context, limit, offset int, userID string) ([]models.PostWithAggregates, error)
	GetPost(ctx context.Context, id string) (*models.PostWithAggregates, error)
	CreatePost(ctx context.Context, title, content string, image *string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	AddComment(ctx context.Context, postID, content string) (*models.CommentWithAuthor, error)
	ListComments(ctx context.Context, postID string) ([]models.CommentWithAuthor, error)
	ToggleLike(ctx context.Context, postID string) (*models.ToggleResult, error)
	Upload(ctx context.Context, contentType string, data []byte) (string, error)
}

// SessionStore keeps the login between invocations.
type SessionStore interface {
	Save(ctx context.Context, sess *store.Session) error
	Load(ctx context.Context) (*store.Session, error)
	Clear(ctx context.Context) error
	Close() error
}

type App struct {
	api     API
	session SessionStore
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp prepares the state directory, opens the session store and builds
// an API client primed with the saved tokens.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	dir, err := filex.EnsureSubdDir(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}

	st, err := store.Open(ctx, dir)
	if err != nil {
		return nil, err
	}

	sess, err := st.Load(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	client := apiclient.New(cfg.ServerURL, cfg.RequestTimeout)
	client.SetTokens(sess.AccessToken, sess.RefreshToken)
	client.OnRefresh(st.UpdateTokens)

	return newApp(client, st, os.Stdin, os.Stdout), nil
}

func newApp(api API, session SessionStore, in io.Reader, out io.Writer) *App {
	return &App{api: api, session: session, reader: bufio.NewReader(in), out: out}
}

func (a *App) Close() error {
	return a.session.Close()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
