// Package client is the typed storefront-side client of the commerce
// API. All calls go through one request helper that attaches the
// persisted bearer token and normalizes error bodies into a single
// user-facing message. There are no retries and no explicit timeouts
// beyond whatever the injected http.Client enforces.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// TokenStore is the persisted storage for the auth token. The web
// frontend backs it with a cookie; tests use an in-memory value.
type TokenStore interface {
	Token() string
	SetToken(token string)
	ClearToken()
}

// MemoryTokenStore keeps the token for the lifetime of the process.
type MemoryTokenStore struct{ token string }

func (s *MemoryTokenStore) Token() string         { return s.token }
func (s *MemoryTokenStore) SetToken(token string) { s.token = token }
func (s *MemoryTokenStore) ClearToken()           { s.token = "" }

// APIError carries the server's message for non-2xx responses.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore

	Auth     *AuthAPI
	Products *ProductsAPI
	Cart     *CartAPI
	Orders   *OrdersAPI
	User     *UserAPI
}

func New(baseURL string, tokens TokenStore, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{baseURL: baseURL, http: httpClient, tokens: tokens}
	c.Auth = &AuthAPI{c: c}
	c.Products = &ProductsAPI{c: c}
	c.Cart = &CartAPI{c: c}
	c.Orders = &OrdersAPI{c: c}
	c.User = &UserAPI{c: c}
	return c
}

func (c *Client) Tokens() TokenStore { return c.tokens }

// request performs one call. A non-2xx response becomes an *APIError
// with the body's message field, or a generic status message when the
// body is not JSON.
func (c *Client) request(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("request failed with status %d", resp.StatusCode),
		}
		var errBody struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Message != "" {
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
