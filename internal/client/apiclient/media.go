package apiclient

import (
	"bytes"
	"context"
	"net/http"

	"github.com/dmitrijs2005/gopherblog/internal/netx"
)

type PresignedUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
}

func (c *Client) Presign(ctx context.Context, contentType string) (*PresignedUpload, error) {
	var out PresignedUpload
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/media/presign",
		auth:   true,
		in:     map[string]string{"content_type": contentType},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload presigns an upload for data and PUTs it, returning the public URL
// to use as a post image or avatar.
func (c *Client) Upload(ctx context.Context, contentType string, data []byte) (string, error) {
	up, err := c.Presign(ctx, contentType)
	if err != nil {
		return "", err
	}
	if err := netx.UploadToPresignedURL(ctx, c.http, up.UploadURL, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", err
	}
	return up.PublicURL, nil
}
