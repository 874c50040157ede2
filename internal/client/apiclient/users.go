package apiclient

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gopherblog/internal/server/models"
)

type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	User *models.PublicUser `json:"user"`
	TokenPair
}

// Register creates an account and installs the returned tokens.
func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/users/register",
		in:     map[string]string{"username": username, "email": email, "password": password},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	c.SetTokens(out.AccessToken, out.RefreshToken)
	return &out, nil
}

// Login authenticates and installs the returned tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/users/login",
		in:     map[string]string{"email": email, "password": password},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	c.SetTokens(out.AccessToken, out.RefreshToken)
	return &out, nil
}

// Refresh rotates the token pair and reports it to the OnRefresh callback.
func (c *Client) Refresh(ctx context.Context) error {
	_, refresh := c.tokens()

	var out TokenPair
	err := c.send(ctx, request{
		method: http.MethodPost,
		path:   "/users/token/refresh",
		in:     map[string]string{"refresh_token": refresh},
		out:    &out,
	})
	if err != nil {
		return err
	}

	c.SetTokens(out.AccessToken, out.RefreshToken)

	c.mu.Lock()
	save := c.onRefresh
	c.mu.Unlock()
	if save != nil {
		return save(ctx, out.AccessToken, out.RefreshToken)
	}
	return nil
}

func (c *Client) Me(ctx context.Context) (*models.PublicUser, error) {
	var out models.PublicUser
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/profile/me", auth: true, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
