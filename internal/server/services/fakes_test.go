package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gopherblog/internal/dbx"
	"github.com/dmitrijs2005/gopherblog/internal/server/config"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
	commentsrepo "github.com/dmitrijs2005/gopherblog/internal/server/repositories/comments"
	likesrepo "github.com/dmitrijs2005/gopherblog/internal/server/repositories/likes"
	postsrepo "github.com/dmitrijs2005/gopherblog/internal/server/repositories/posts"
	refreshtokensrepo "github.com/dmitrijs2005/gopherblog/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/gopherblog/internal/server/repositories/users"
)

const (
	aliceID = "0b7c2d4e-1111-4a5b-9c8d-000000000001"
	bobID   = "0b7c2d4e-2222-4a5b-9c8d-000000000002"
	postID  = "5f0e9a1c-3333-4d2e-8f7a-000000000003"
	cmtID   = "5f0e9a1c-4444-4d2e-8f7a-000000000004"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// callLog records repository calls across fakes so tests can assert order.
type callLog struct{ calls []string }

func (l *callLog) add(c string) {
	if l != nil {
		l.calls = append(l.calls, c)
	}
}

type fakeUsersRepo struct {
	usersrepo.Repository
	log *callLog

	createErr error
	getOut    *models.User
	getErr    error
	hash      string
	hashErr   error
	list      []*models.User
	updateOut *models.User
	updateErr error
	gotUpdate *models.UserUpdate
	newHash   string
	deleteErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.log.add("users.Create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.CreatedAt = time.Now()
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.getOut, f.getErr
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.getOut, f.getErr
}

func (f *fakeUsersRepo) GetPasswordHash(ctx context.Context, id string) (string, error) {
	return f.hash, f.hashErr
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	return f.list, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id string, upd *models.UserUpdate) (*models.User, error) {
	f.gotUpdate = upd
	return f.updateOut, f.updateErr
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id string, hash string) error {
	f.log.add("users.UpdatePassword")
	f.newHash = hash
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.log.add("users.Delete")
	return f.deleteErr
}

type fakeRefreshRepo struct {
	log *callLog

	findOut   *models.RefreshToken
	findErr   error
	delErr    error
	createErr error
	created   []string
	purged    int64
	purgeErr  error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.log.add("refresh.Create")
	if f.createErr == nil {
		f.created = append(f.created, userID)
	}
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Consume(ctx context.Context, token string) error {
	f.log.add("refresh.Consume")
	return f.delErr
}

func (f *fakeRefreshRepo) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	f.log.add("refresh.PurgeExpired")
	return f.purged, f.purgeErr
}

func (f *fakeRefreshRepo) DeleteByUser(ctx context.Context, userID string) error {
	f.log.add("refresh.DeleteByUser")
	return nil
}

type fakePostsRepo struct {
	postsrepo.Repository
	log *callLog

	createErr  error
	list       []*models.PostWithAggregates
	gotFilter  models.PostFilter
	getOut     *models.PostWithAggregates
	getErr     error
	locked     *models.Post
	lockErr    error
	exists     bool
	existsErr  error
	gotUpdate  *models.PostUpdate
	updateOut  *models.Post
	deleteErr  error
	listCalled bool
}

func (f *fakePostsRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	return p, nil
}

func (f *fakePostsRepo) List(ctx context.Context, filter models.PostFilter) ([]*models.PostWithAggregates, error) {
	f.listCalled = true
	f.gotFilter = filter
	return f.list, nil
}

func (f *fakePostsRepo) ListByAuthor(ctx context.Context, authorID string) ([]*models.PostWithAggregates, error) {
	f.listCalled = true
	f.gotFilter = models.PostFilter{AuthorID: authorID}
	return f.list, nil
}

func (f *fakePostsRepo) GetByID(ctx context.Context, id string) (*models.PostWithAggregates, error) {
	return f.getOut, f.getErr
}

func (f *fakePostsRepo) GetForUpdate(ctx context.Context, id string) (*models.Post, error) {
	f.log.add("posts.GetForUpdate")
	return f.locked, f.lockErr
}

func (f *fakePostsRepo) Exists(ctx context.Context, id string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakePostsRepo) Update(ctx context.Context, id string, upd *models.PostUpdate) (*models.Post, error) {
	f.log.add("posts.Update")
	f.gotUpdate = upd
	return f.updateOut, nil
}

func (f *fakePostsRepo) Delete(ctx context.Context, id string) error {
	f.log.add("posts.Delete")
	return f.deleteErr
}

func (f *fakePostsRepo) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	f.log.add("posts.DeleteByAuthor")
	return 0, nil
}

type fakeCommentsRepo struct {
	commentsrepo.Repository
	log *callLog

	createErr  error
	getOut     *models.CommentWithAuthor
	locked     *models.Comment
	lockErr    error
	updateOut  *models.Comment
	deleteErr  error
	listCalled bool
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	f.log.add("comments.Create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.CreatedAt = time.Now()
	f.getOut = &models.CommentWithAuthor{Comment: *c, Author: models.Author{UserName: "bob"}}
	return c, nil
}

func (f *fakeCommentsRepo) ListByPost(ctx context.Context, postID string) ([]*models.CommentWithAuthor, error) {
	f.listCalled = true
	return []*models.CommentWithAuthor{}, nil
}

func (f *fakeCommentsRepo) ListByAuthor(ctx context.Context, authorID string) ([]*models.CommentWithAuthorAndPostTitle, error) {
	f.listCalled = true
	return []*models.CommentWithAuthorAndPostTitle{}, nil
}

func (f *fakeCommentsRepo) GetByID(ctx context.Context, id string) (*models.CommentWithAuthor, error) {
	if f.getOut == nil {
		return nil, errBoom{}
	}
	return f.getOut, nil
}

func (f *fakeCommentsRepo) GetForUpdate(ctx context.Context, id string) (*models.Comment, error) {
	f.log.add("comments.GetForUpdate")
	return f.locked, f.lockErr
}

func (f *fakeCommentsRepo) UpdateContent(ctx context.Context, id string, content string) (*models.Comment, error) {
	f.log.add("comments.UpdateContent")
	return f.updateOut, nil
}

func (f *fakeCommentsRepo) Delete(ctx context.Context, id string) error {
	f.log.add("comments.Delete")
	return f.deleteErr
}

func (f *fakeCommentsRepo) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	f.log.add("comments.DeleteByPost")
	return 0, f.deleteErr
}

func (f *fakeCommentsRepo) DeleteByAuthor(ctx context.Context, authorID string) (int64, error) {
	f.log.add("comments.DeleteByAuthor")
	return 0, nil
}

func (f *fakeCommentsRepo) DeleteOnPostsOf(ctx context.Context, authorID string) (int64, error) {
	f.log.add("comments.DeleteOnPostsOf")
	return 0, nil
}

type fakeLikesRepo struct {
	likesrepo.Repository
	log *callLog

	removed   int64
	deleteErr error
	createErr error
	exists    bool
	count     int64
}

func (f *fakeLikesRepo) Create(ctx context.Context, l *models.Like) (*models.Like, error) {
	f.log.add("likes.Create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	l.CreatedAt = time.Now()
	return l, nil
}

func (f *fakeLikesRepo) DeletePair(ctx context.Context, userID, postID string) (int64, error) {
	f.log.add("likes.DeletePair")
	return f.removed, f.deleteErr
}

func (f *fakeLikesRepo) Exists(ctx context.Context, userID, postID string) (bool, error) {
	return f.exists, nil
}

func (f *fakeLikesRepo) CountByPost(ctx context.Context, postID string) (int64, error) {
	return f.count, nil
}

func (f *fakeLikesRepo) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	f.log.add("likes.DeleteByPost")
	return 0, nil
}

func (f *fakeLikesRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	f.log.add("likes.DeleteByUser")
	return 0, nil
}

func (f *fakeLikesRepo) DeleteOnPostsOf(ctx context.Context, authorID string) (int64, error) {
	f.log.add("likes.DeleteOnPostsOf")
	return 0, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	p *fakePostsRepo
	c *fakeCommentsRepo
	l *fakeLikesRepo
}

// newFakeRepoManager wires every fake to one shared call log.
func newFakeRepoManager() (*fakeRepoManager, *callLog) {
	log := &callLog{}
	return &fakeRepoManager{
		u: &fakeUsersRepo{log: log},
		r: &fakeRefreshRepo{log: log},
		p: &fakePostsRepo{log: log},
		c: &fakeCommentsRepo{log: log},
		l: &fakeLikesRepo{log: log},
	}, log
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error             { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                   { return m.u }
func (m *fakeRepoManager) Posts(db dbx.DBTX) postsrepo.Repository                   { return m.p }
func (m *fakeRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository             { return m.c }
func (m *fakeRepoManager) Likes(db dbx.DBTX) likesrepo.Repository                   { return m.l }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		S3Region:                     "us-east-1",
		S3RootUser:                   "minioadmin",
		S3RootPassword:               "minioadmin",
		S3BaseEndpoint:               "http://127.0.0.1:9000",
		S3Bucket:                     "blog-media",
		S3PublicBaseURL:              "http://cdn.local/blog-media/",
	}
}

func ptr(s string) *string { return &s }
