package api

import (
	"context"
	"net/http"

	"qoralist/internal/models"
)

// Login authenticates with username and password. On success the result
// carries the bearer token and the user summary; the caller is responsible
// for storing them in the session. A rejected login never triggers the
// auth-reject hook, so an existing session survives a failed re-login.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	creds := models.Credentials{Username: username, Password: password}

	var result models.LoginResult
	if err := c.send(ctx, http.MethodPost, "/auth/login", nil, creds, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchSelf returns the summary of the authenticated user.
func (c *Client) FetchSelf(ctx context.Context) (*models.UserSummary, error) {
	var resp struct {
		User models.UserSummary `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// FetchProfile returns the extended profile of the authenticated user.
func (c *Client) FetchProfile(ctx context.Context) (*models.UserSummary, error) {
	var user models.UserSummary
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
