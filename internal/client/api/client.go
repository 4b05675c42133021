// Package api implements the HTTP client for the blacklist REST API:
// credential injection, error normalization, and the typed domain operations.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource supplies the current bearer token. An empty token means the
// request goes out unauthenticated; requests never wait for a token.
type TokenSource interface {
	Token() string
}

// Client dispatches requests against the backend API. Every response with an
// authentication rejection triggers the OnAuthReject hook exactly once before
// the error is returned to the caller.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource

	// OnAuthReject is invoked when the server rejects the session (401).
	// Wired to the session store's Logout by the client binary; nil-safe.
	OnAuthReject func()

	log *zap.Logger
}

// New constructs a Client. baseURL must not end with a slash.
func New(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// newRequest builds a JSON request with credentials attached.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do sends the request and decodes a successful JSON response into out
// (skipped when out is nil or the body is empty). Failures come back as
// *Error; the auth-reject hook fires on 401 before the error is returned.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.send(ctx, method, path, query, body, out, true)
}

// send is do with control over the auth-reject side effect. Credential
// submissions opt out: a 401 there means the submitted credentials were
// bad, not that the current session died.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any, authReject bool) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("path", path), zap.Error(err))
		return &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.rejectionError(resp, path, authReject)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			// No content; leave out at its zero value.
			return nil
		}
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	return nil
}

// rejectionError normalizes a non-2xx response and, when authReject is set,
// fires the auth hook on 401.
func (c *Client) rejectionError(resp *http.Response, path string, authReject bool) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	apiErr := &Error{
		Kind:    kindForStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: messageFromBody(data),
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	c.log.Debug("request rejected",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("kind", string(apiErr.Kind)),
	)

	if authReject && apiErr.Kind == KindAuth && c.OnAuthReject != nil {
		c.OnAuthReject()
	}
	return apiErr
}

// messageFromBody pulls a human-readable message out of an error body.
// Both {"message": ...} and {"error": ...} shapes are accepted.
func messageFromBody(data []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
