package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

func (c *Client) AddComment(ctx context.Context, postID, content string) (*models.CommentWithAuthor, error) {
	var out models.CommentWithAuthor
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/comments",
		auth:   true,
		in:     map[string]string{"post_id": postID, "content": content},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListComments(ctx context.Context, postID string) ([]models.CommentWithAuthor, error) {
	var out []models.CommentWithAuthor
	if err := c.do(ctx, request{method: http.MethodGet, path: "/comments/post/" + url.PathEscape(postID), out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}
