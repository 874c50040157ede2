package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/dmitrijs2005/gopherblog/internal/dbx"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
	commentsrepo "github.com/dmitrijs2005/gopherblog/internal/server/repositories/comments"
	likesrepo "github.com/dmitrijs2005/gopherblog/internal/server/repositories/likes"
	postsrepo "github.com/dmitrijs2005/gopherblog/internal/server/repositories/posts"
	refreshtokensrepo "github.com/dmitrijs2005/gopherblog/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/gopherblog/internal/server/repositories/users"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// memStore is a stateful RepositoryManager over maps. It keeps the
// relational rules the services rely on: the unique like pair, foreign keys
// to posts and aggregates computed on read. Transactions opened by the
// services run against an empty SQLite database and do not roll back the
// maps.
type memStore struct {
	mu       sync.Mutex
	seq      int
	posts    map[string]*models.Post
	comments map[string]*models.Comment
	likes    map[string]*models.Like // key: user_id|post_id
	order    map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		posts:    map[string]*models.Post{},
		comments: map[string]*models.Comment{},
		likes:    map[string]*models.Like{},
		order:    map[string]int{},
	}
}

// newTxDB returns a real *sql.DB so dbx.WithTx can begin and commit.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *memStore) Users(dbx.DBTX) usersrepo.Repository                 { return nil }
func (m *memStore) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return nil }
func (m *memStore) Posts(dbx.DBTX) postsrepo.Repository                 { return memPosts{m} }
func (m *memStore) Comments(dbx.DBTX) commentsrepo.Repository           { return memComments{m} }
func (m *memStore) Likes(dbx.DBTX) likesrepo.Repository                 { return memLikes{m} }

func (m *memStore) stamp(id string) time.Time {
	m.seq++
	m.order[id] = m.seq
	return time.Unix(int64(m.seq), 0)
}

func author(userID string) models.Author { return models.Author{UserName: userID} }

type memPosts struct{ m *memStore }

func (r memPosts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cp := *p
	cp.CreatedAt = r.m.stamp(p.ID)
	cp.UpdatedAt = cp.CreatedAt
	r.m.posts[p.ID] = &cp
	out := cp
	return &out, nil
}

func (r memPosts) aggregate(p *models.Post) *models.PostWithAggregates {
	agg := &models.PostWithAggregates{Post: *p, Author: author(p.UserID)}
	for _, c := range r.m.comments {
		if c.PostID == p.ID {
			agg.CommentCount++
		}
	}
	for _, l := range r.m.likes {
		if l.PostID == p.ID {
			agg.LikeCount++
		}
	}
	return agg
}

func (r memPosts) List(_ context.Context, f models.PostFilter) ([]*models.PostWithAggregates, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.PostWithAggregates{}
	for _, p := range r.m.posts {
		if f.AuthorID == "" || p.UserID == f.AuthorID {
			out = append(out, r.aggregate(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.m.order[out[i].ID] > r.m.order[out[j].ID] })
	if f.Offset >= len(out) {
		return []*models.PostWithAggregates{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memPosts) ListByAuthor(ctx context.Context, authorID string) ([]*models.PostWithAggregates, error) {
	return r.List(ctx, models.PostFilter{AuthorID: authorID})
}

func (r memPosts) GetByID(_ context.Context, id string) (*models.PostWithAggregates, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.aggregate(p), nil
}

func (r memPosts) GetForUpdate(_ context.Context, id string) (*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *p
	return &out, nil
}

func (r memPosts) Exists(_ context.Context, id string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.posts[id]
	return ok, nil
}

func (r memPosts) Update(_ context.Context, id string, upd *models.PostUpdate) (*models.Post, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.Image != nil {
		p.Image = nonBlank(upd.Image)
	}
	out := *p
	return &out, nil
}

// Delete refuses while comments or likes still reference the post, the way
// the foreign keys do.
func (r memPosts) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.posts[id]; !ok {
		return common.ErrorNotFound
	}
	for _, c := range r.m.comments {
		if c.PostID == id {
			return errBoom{}
		}
	}
	for _, l := range r.m.likes {
		if l.PostID == id {
			return errBoom{}
		}
	}
	delete(r.m.posts, id)
	return nil
}

func (r memPosts) DeleteByAuthor(_ context.Context, authorID string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for id, p := range r.m.posts {
		if p.UserID == authorID {
			delete(r.m.posts, id)
			n++
		}
	}
	return n, nil
}

type memComments struct{ m *memStore }

func (r memComments) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.posts[c.PostID]; !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	cp.CreatedAt = r.m.stamp(c.ID)
	r.m.comments[c.ID] = &cp
	out := cp
	return &out, nil
}

func (r memComments) ListByPost(_ context.Context, postID string) ([]*models.CommentWithAuthor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.CommentWithAuthor{}
	for _, c := range r.m.comments {
		if c.PostID == postID {
			out = append(out, &models.CommentWithAuthor{Comment: *c, Author: author(c.UserID)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.m.order[out[i].ID] < r.m.order[out[j].ID] })
	return out, nil
}

func (r memComments) ListByAuthor(_ context.Context, authorID string) ([]*models.CommentWithAuthorAndPostTitle, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.CommentWithAuthorAndPostTitle{}
	for _, c := range r.m.comments {
		if c.UserID == authorID {
			out = append(out, &models.CommentWithAuthorAndPostTitle{
				Comment: *c, Author: author(c.UserID), PostTitle: r.m.posts[c.PostID].Title,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.m.order[out[i].ID] > r.m.order[out[j].ID] })
	return out, nil
}

func (r memComments) GetByID(_ context.Context, id string) (*models.CommentWithAuthor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.comments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.CommentWithAuthor{Comment: *c, Author: author(c.UserID)}, nil
}

func (r memComments) GetForUpdate(_ context.Context, id string) (*models.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.comments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *c
	return &out, nil
}

func (r memComments) UpdateContent(_ context.Context, id, content string) (*models.Comment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.comments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c.Content = content
	out := *c
	return &out, nil
}

func (r memComments) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.comments[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.comments, id)
	return nil
}

func (r memComments) deleteWhere(match func(*models.Comment) bool) int64 {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for id, c := range r.m.comments {
		if match(c) {
			delete(r.m.comments, id)
			n++
		}
	}
	return n
}

func (r memComments) DeleteByPost(_ context.Context, postID string) (int64, error) {
	return r.deleteWhere(func(c *models.Comment) bool { return c.PostID == postID }), nil
}

func (r memComments) DeleteByAuthor(_ context.Context, authorID string) (int64, error) {
	return r.deleteWhere(func(c *models.Comment) bool { return c.UserID == authorID }), nil
}

func (r memComments) DeleteOnPostsOf(_ context.Context, authorID string) (int64, error) {
	return r.deleteWhere(func(c *models.Comment) bool {
		p, ok := r.m.posts[c.PostID]
		return ok && p.UserID == authorID
	}), nil
}

type memLikes struct{ m *memStore }

func pairKey(userID, postID string) string { return userID + "|" + postID }

func (r memLikes) Create(_ context.Context, l *models.Like) (*models.Like, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.posts[l.PostID]; !ok {
		return nil, common.ErrorNotFound
	}
	key := pairKey(l.UserID, l.PostID)
	if _, dup := r.m.likes[key]; dup {
		return nil, common.ErrorConflict
	}
	cp := *l
	cp.CreatedAt = r.m.stamp(l.ID)
	r.m.likes[key] = &cp
	out := cp
	return &out, nil
}

func (r memLikes) DeletePair(_ context.Context, userID, postID string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := pairKey(userID, postID)
	if _, ok := r.m.likes[key]; !ok {
		return 0, nil
	}
	delete(r.m.likes, key)
	return 1, nil
}

func (r memLikes) Exists(_ context.Context, userID, postID string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.likes[pairKey(userID, postID)]
	return ok, nil
}

func (r memLikes) CountByPost(_ context.Context, postID string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, l := range r.m.likes {
		if l.PostID == postID {
			n++
		}
	}
	return n, nil
}

// countPair is what the unique index guarantees never exceeds one.
func (m *memStore) countPair(userID, postID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.likes {
		if l.UserID == userID && l.PostID == postID {
			n++
		}
	}
	return n
}

func (r memLikes) ListByPost(_ context.Context, postID string) ([]*models.LikeWithUser, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.LikeWithUser{}
	for _, l := range r.m.likes {
		if l.PostID == postID {
			out = append(out, &models.LikeWithUser{Like: *l, Author: author(l.UserID)})
		}
	}
	return out, nil
}

func (r memLikes) ListByUser(_ context.Context, userID string) ([]*models.LikeWithPostTitle, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := []*models.LikeWithPostTitle{}
	for _, l := range r.m.likes {
		if l.UserID == userID {
			out = append(out, &models.LikeWithPostTitle{Like: *l, Author: author(l.UserID), PostTitle: r.m.posts[l.PostID].Title})
		}
	}
	return out, nil
}

func (r memLikes) deleteWhere(match func(*models.Like) bool) int64 {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for k, l := range r.m.likes {
		if match(l) {
			delete(r.m.likes, k)
			n++
		}
	}
	return n
}

func (r memLikes) DeleteByPost(_ context.Context, postID string) (int64, error) {
	return r.deleteWhere(func(l *models.Like) bool { return l.PostID == postID }), nil
}

func (r memLikes) DeleteByUser(_ context.Context, userID string) (int64, error) {
	return r.deleteWhere(func(l *models.Like) bool { return l.UserID == userID }), nil
}

func (r memLikes) DeleteOnPostsOf(_ context.Context, authorID string) (int64, error) {
	return r.deleteWhere(func(l *models.Like) bool {
		p, ok := r.m.posts[l.PostID]
		return ok && p.UserID == authorID
	}), nil
}
