package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/dmitrijs2005/gopherblog/internal/logging"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
	"github.com/dmitrijs2005/gopherblog/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	aliceID    = "6f1c2a4e-8b1d-4c33-9a55-0e3f7d2b1a01"
	validToken = "good-token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeAuth struct{}

func (fakeAuth) Authenticate(token string) (string, error) {
	if token == validToken {
		return aliceID, nil
	}
	return "", common.ErrInvalidToken
}

type fakeUsers struct {
	fakeAuth
	register       func(username, email, password string, avatar *string) (*services.Session, error)
	login          func(email, password string) (*services.Session, error)
	refresh        func(token string) (*services.TokenPair, error)
	get            func(id string) (*models.PublicUser, error)
	list           func() ([]*models.PublicUser, error)
	updateProfile  func(actorID string, upd *models.UserUpdate) (*models.PublicUser, error)
	changePassword func(actorID, current, next string) error
	deleteUser     func(actorID string) error
}

func (f *fakeUsers) Register(_ context.Context, username, email, password string, avatar *string) (*services.Session, error) {
	return f.register(username, email, password, avatar)
}
func (f *fakeUsers) Login(_ context.Context, email, password string) (*services.Session, error) {
	return f.login(email, password)
}
func (f *fakeUsers) RefreshToken(_ context.Context, token string) (*services.TokenPair, error) {
	return f.refresh(token)
}
func (f *fakeUsers) Get(_ context.Context, id string) (*models.PublicUser, error) { return f.get(id) }
func (f *fakeUsers) List(context.Context) ([]*models.PublicUser, error)         { return f.list() }
func (f *fakeUsers) UpdateProfile(_ context.Context, actorID string, upd *models.UserUpdate) (*models.PublicUser, error) {
	return f.updateProfile(actorID, upd)
}
func (f *fakeUsers) ChangePassword(_ context.Context, actorID, current, next string) error {
	return f.changePassword(actorID, current, next)
}
func (f *fakeUsers) Delete(_ context.Context, actorID string) error { return f.deleteUser(actorID) }

type fakePosts struct {
	create       func(actorID, title, content string, image *string) (*models.Post, error)
	list         func(filter models.PostFilter) ([]*models.PostWithAggregates, error)
	listByAuthor func(authorID string) ([]*models.PostWithAggregates, error)
	getByID      func(id string) (*models.PostWithAggregates, error)
	update       func(id, actorID string, upd *models.PostUpdate) (*models.Post, error)
	del          func(id, actorID string) error
}

func (f *fakePosts) Create(_ context.Context, actorID, title, content string, image *string) (*models.Post, error) {
	return f.create(actorID, title, content, image)
}
func (f *fakePosts) List(_ context.Context, filter models.PostFilter) ([]*models.PostWithAggregates, error) {
	return f.list(filter)
}
func (f *fakePosts) ListByAuthor(_ context.Context, authorID string) ([]*models.PostWithAggregates, error) {
	return f.listByAuthor(authorID)
}
func (f *fakePosts) GetByID(_ context.Context, id string) (*models.PostWithAggregates, error) {
	return f.getByID(id)
}
func (f *fakePosts) Update(_ context.Context, id, actorID string, upd *models.PostUpdate) (*models.Post, error) {
	return f.update(id, actorID, upd)
}
func (f *fakePosts) Delete(_ context.Context, id, actorID string) error { return f.del(id, actorID) }

type fakeComments struct {
	create       func(actorID, postID, content string) (*models.CommentWithAuthor, error)
	listByPost   func(postID string) ([]*models.CommentWithAuthor, error)
	listByAuthor func(authorID string) ([]*models.CommentWithAuthorAndPostTitle, error)
	getByID      func(id string) (*models.CommentWithAuthor, error)
	update       func(id, actorID, content string) (*models.Comment, error)
	del          func(id, actorID string) error
}

func (f *fakeComments) Create(_ context.Context, actorID, postID, content string) (*models.CommentWithAuthor, error) {
	return f.create(actorID, postID, content)
}
func (f *fakeComments) ListByPost(_ context.Context, postID string) ([]*models.CommentWithAuthor, error) {
	return f.listByPost(postID)
}
func (f *fakeComments) ListByAuthor(_ context.Context, authorID string) ([]*models.CommentWithAuthorAndPostTitle, error) {
	return f.listByAuthor(authorID)
}
func (f *fakeComments) GetByID(_ context.Context, id string) (*models.CommentWithAuthor, error) {
	return f.getByID(id)
}
func (f *fakeComments) Update(_ context.Context, id, actorID, content string) (*models.Comment, error) {
	return f.update(id, actorID, content)
}
func (f *fakeComments) Delete(_ context.Context, id, actorID string) error { return f.del(id, actorID) }

type fakeLikes struct {
	toggle     func(actorID, postID string) (*models.ToggleResult, error)
	count      func(postID string) (int64, error)
	status     func(actorID, postID string) (bool, error)
	listByPost func(postID string) ([]*models.LikeWithUser, error)
	listByUser func(userID string) ([]*models.LikeWithPostTitle, error)
}

func (f *fakeLikes) Toggle(_ context.Context, actorID, postID string) (*models.ToggleResult, error) {
	return f.toggle(actorID, postID)
}
func (f *fakeLikes) CountByPost(_ context.Context, postID string) (int64, error) {
	return f.count(postID)
}
func (f *fakeLikes) Status(_ context.Context, actorID, postID string) (bool, error) {
	return f.status(actorID, postID)
}
func (f *fakeLikes) ListByPost(_ context.Context, postID string) ([]*models.LikeWithUser, error) {
	return f.listByPost(postID)
}
func (f *fakeLikes) ListByUser(_ context.Context, userID string) ([]*models.LikeWithPostTitle, error) {
	return f.listByUser(userID)
}

type fakeMedia struct {
	presign func(userID, contentType string) (*services.PresignedUpload, error)
}

func (f *fakeMedia) PresignUpload(_ context.Context, userID, contentType string) (*services.PresignedUpload, error) {
	return f.presign(userID, contentType)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func newTestServer(routers ...Router) http.Handler {
	return NewHTTPServer("127.0.0.1:0", nopLogger(), routers...).Handler()
}

// do sends a request with an optional JSON body; token may be empty.
func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

