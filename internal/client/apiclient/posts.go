package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

func (c *Client) ListPosts(ctx context.Context, limit, offset int, userID string) ([]models.PostWithAggregates, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	if userID != "" {
		q.Set("user_id", userID)
	}

	var out []models.PostWithAggregates
	if err := c.do(ctx, request{method: http.MethodGet, path: "/posts", query: q, out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*models.PostWithAggregates, error) {
	var out models.PostWithAggregates
	if err := c.do(ctx, request{method: http.MethodGet, path: "/posts/" + url.PathEscape(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePost(ctx context.Context, title, content string, image *string) (*models.Post, error) {
	in := struct {
		Title   string  `json:"title"`
		Content string  `json:"content"`
		Image   *string `json:"image,omitempty"`
	}{title, content, image}

	var out models.Post
	if err := c.do(ctx, request{method: http.MethodPost, path: "/posts", auth: true, in: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/posts/" + url.PathEscape(id), auth: true})
}
