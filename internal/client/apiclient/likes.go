package apiclient

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

func (c *Client) ToggleLike(ctx context.Context, postID string) (*models.ToggleResult, error) {
	var out models.ToggleResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/likes/toggle",
		auth:   true,
		in:     map[string]string{"post_id": postID},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
