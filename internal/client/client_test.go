package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func TestRequestAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]int{"count": 0})
	}))
	defer srv.Close()

	tokens := &MemoryTokenStore{}
	api := New(srv.URL, tokens, nil)

	_, err := api.Cart.Count(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	tokens.SetToken("tok-123")
	_, err = api.Cart.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestRequestErrorMessageFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "email already registered"})
	}))
	defer srv.Close()

	api := New(srv.URL, &MemoryTokenStore{}, nil)
	_, err := api.Auth.Register(context.Background(), RegisterInput{Email: "a@b.c"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "email already registered", apiErr.Message)
}

func TestRequestErrorFallbackOnBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	api := New(srv.URL, &MemoryTokenStore{}, nil)
	_, err := api.Products.Get(context.Background(), 1)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 502", apiErr.Message)
}

func TestListOptionsOmitZeroValues(t *testing.T) {
	assert.Empty(t, ListOptions{}.encode())

	got := ListOptions{
		Category: "electronics",
		MaxPrice: decimal.NewFromInt(500),
		Sort:     "price",
		Order:    "asc",
		Page:     2,
	}.encode()
	assert.Equal(t, "?category=electronics&maxPrice=500&order=asc&page=2&sort=price", got)
}

func TestSearchEncodesQueryVerbatim(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(map[string]any{"products": []models.Product{}})
	}))
	defer srv.Close()

	api := New(srv.URL, &MemoryTokenStore{}, nil)
	_, err := api.Products.Search(context.Background(), "coffee maker & grinder")
	require.NoError(t, err)
	assert.Equal(t, "coffee maker & grinder", gotQuery)
}
