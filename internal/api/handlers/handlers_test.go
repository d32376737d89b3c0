package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/api"
	"storefront/internal/api/handlers"
	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/repo"
	"storefront/internal/service"
)

// ---- in-memory fakes ----

type memUsers struct {
	byID    map[int64]models.User
	byEmail map[string]models.User
	nextID  int64
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]models.User{}, byEmail: map[string]models.User{}}
}

func (m *memUsers) Create(ctx context.Context, email, hash, first, last string) (models.User, error) {
	if _, ok := m.byEmail[email]; ok {
		return models.User{}, repo.ErrDuplicateEmail
	}
	m.nextID++
	u := models.User{ID: m.nextID, Email: email, FirstName: first, LastName: last, PasswordHash: hash, CreatedAt: time.Now()}
	m.byID[u.ID] = u
	m.byEmail[email] = u
	return u, nil
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) UpdateProfile(ctx context.Context, id int64, first, last, phone string) (models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	u.FirstName, u.LastName, u.Phone = first, last, phone
	m.byID[id] = u
	m.byEmail[u.Email] = u
	return u, nil
}

func (m *memUsers) UpdatePassword(ctx context.Context, id int64, hash string) error {
	u, ok := m.byID[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = hash
	m.byID[id] = u
	m.byEmail[u.Email] = u
	return nil
}

type memResets struct{ tokens map[string]int64 }

func (m *memResets) Issue(ctx context.Context, userID int64) (string, error) {
	if m.tokens == nil {
		m.tokens = map[string]int64{}
	}
	m.tokens["tok"] = userID
	return "tok", nil
}

func (m *memResets) Redeem(ctx context.Context, token string) (int64, error) {
	id, ok := m.tokens[token]
	if !ok {
		return 0, repo.ErrNotFound
	}
	delete(m.tokens, token)
	return id, nil
}

type memProducts struct {
	products   map[int64]models.Product
	lastFilter models.ProductFilter
	lastQuery  string
}

func (m *memProducts) List(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	m.lastFilter = f
	var out []models.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) Search(ctx context.Context, q string, limit int) ([]models.Product, error) {
	m.lastQuery = q
	return nil, nil
}

func (m *memProducts) Categories(ctx context.Context) ([]string, error) {
	return []string{"electronics", "home"}, nil
}

func (m *memProducts) ByCategory(ctx context.Context, c string) ([]models.Product, error) {
	return nil, nil
}

func (m *memProducts) GetByID(ctx context.Context, id int64) (models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return models.Product{}, repo.ErrNotFound
	}
	return p, nil
}

type memCarts struct {
	cart   models.Cart
	nextID int64
}

func (m *memCarts) GetOrCreate(ctx context.Context, userID int64) (models.Cart, error) {
	m.cart.ID = 1
	m.cart.UserID = userID
	return m.cart, nil
}

func (m *memCarts) FindItem(ctx context.Context, itemID int64) (models.CartItem, int64, error) {
	for _, it := range m.cart.Items {
		if it.ID == itemID {
			return it, m.cart.UserID, nil
		}
	}
	return models.CartItem{}, 0, repo.ErrNotFound
}

func (m *memCarts) UpsertItem(ctx context.Context, cartID, productID int64, quantity int, size string) (models.CartItem, error) {
	for i, it := range m.cart.Items {
		if it.ProductID == productID && it.Size == size {
			m.cart.Items[i].Quantity += quantity
			return m.cart.Items[i], nil
		}
	}
	m.nextID++
	it := models.CartItem{ID: m.nextID, CartID: cartID, ProductID: productID, Quantity: quantity, Size: size, AddedAt: time.Now()}
	m.cart.Items = append(m.cart.Items, it)
	return it, nil
}

func (m *memCarts) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	for i, it := range m.cart.Items {
		if it.ID == itemID {
			m.cart.Items[i].Quantity = quantity
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memCarts) DeleteItem(ctx context.Context, itemID int64) error {
	for i, it := range m.cart.Items {
		if it.ID == itemID {
			m.cart.Items = append(m.cart.Items[:i], m.cart.Items[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (m *memCarts) Clear(ctx context.Context, userID int64) error {
	m.cart.Items = nil
	return nil
}

func (m *memCarts) ItemCount(ctx context.Context, userID int64) (int, error) {
	n := 0
	for _, it := range m.cart.Items {
		n += it.Quantity
	}
	return n, nil
}

// ---- harness ----

type env struct {
	srv      *httptest.Server
	users    *memUsers
	products *memProducts
	carts    *memCarts
	tokens   *auth.TokenManager
}

func newEnv(t *testing.T) *env {
	t.Helper()

	log := zerolog.Nop()
	users := newMemUsers()
	products := &memProducts{products: map[int64]models.Product{
		1: {ID: 1, Name: "Wireless Headphones", Price: decimal.RequireFromString("99.99"), Category: "electronics", StockQuantity: 10, Active: true},
		2: {ID: 2, Name: "Coffee Maker", Price: decimal.RequireFromString("149.99"), Category: "home", StockQuantity: 5, Active: true},
	}}
	carts := &memCarts{}
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	cartSvc := &service.CartsService{Carts: carts, Products: products}

	authH := &handlers.AuthHandler{Users: users, Tokens: tokens, Resets: &memResets{}, Log: log}
	prodH := &handlers.ProductsHandler{Repo: products, Getter: products, Log: log}
	cartH := &handlers.CartHandler{Carts: cartSvc, Log: log}
	userH := &handlers.UserHandler{Users: users, Log: log}

	router := api.NewRouter(&api.Handlers{
		Health:         api.Health,
		Login:          authH.Login,
		Register:       authH.Register,
		ForgotPassword: authH.ForgotPassword,
		ResetPassword:  authH.ResetPassword,
		ListProducts:   prodH.List,
		GetProduct:     prodH.Get,
		SearchProducts: prodH.Search,
		ListCategories: prodH.Categories,
		ProductsByCat:  prodH.ByCategory,
		GetCart:        cartH.Get,
		AddCartItem:    cartH.AddItem,
		UpdateCartItem: cartH.UpdateItem,
		RemoveCartItem: cartH.RemoveItem,
		ClearCart:      cartH.Clear,
		CartCount:      cartH.Count,
		CreateOrder:    notImplemented, ListOrders: notImplemented, GetOrder: notImplemented, CancelOrder: notImplemented,
		GetProfile:     userH.GetProfile,
		UpdateProfile:  userH.UpdateProfile,
		ChangePassword: userH.ChangePassword,
		ListAddresses:  notImplemented, AddAddress: notImplemented, UpdateAddress: notImplemented, DeleteAddress: notImplemented,
	}, tokens)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &env{srv: srv, users: users, products: products, carts: carts, tokens: tokens}
}

func notImplemented(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "not implemented", http.StatusNotImplemented)
}

func (e *env) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (e *env) registerAndLogin(t *testing.T) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.test", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

// ---- tests ----

func TestCartRequiresAuth(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "authentication required", body.Message)
}

func TestInvalidTokenRejected(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/api/user/profile", "garbage", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterLoginProfile(t *testing.T) {
	e := newEnv(t)
	token := e.registerAndLogin(t)

	resp := e.do(t, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user map[string]any
	decode(t, resp, &user)
	assert.Equal(t, "ada@example.test", user["email"])

	// password hash never leaves the server
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "password_hash")
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	e := newEnv(t)
	e.registerAndLogin(t)

	resp := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.test", "password": "secret1",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)
	e.registerAndLogin(t)

	resp := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ada@example.test", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "invalid email or password", body.Message)
}

func TestProductListFilterParsing(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/api/products?category=electronics&maxPrice=500&sort=price&order=asc&page=2&limit=20", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	f := e.products.lastFilter
	assert.Equal(t, "electronics", f.Category)
	assert.True(t, f.MaxPrice.Equal(decimal.NewFromInt(500)))
	assert.True(t, f.MinPrice.IsZero())
	assert.Equal(t, "price", f.SortBy)
	assert.Equal(t, "asc", f.SortOrder)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 20, f.Limit)
}

func TestProductListOmittedParamsStayZero(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/api/products", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, models.ProductFilter{}, e.products.lastFilter)
}

func TestSearchQueryPassedVerbatim(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodGet, "/api/products/search?q=coffee%20maker", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "coffee maker", e.products.lastQuery)
}

func TestCartFlowAndTotals(t *testing.T) {
	e := newEnv(t)
	token := e.registerAndLogin(t)

	resp := e.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{"productId": 1, "quantity": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{"productId": 2, "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// the fake store has no join, attach products the way the SQL layer would
	for i := range e.carts.cart.Items {
		p := e.products.products[e.carts.cart.Items[i].ProductID]
		e.carts.cart.Items[i].Product = &p
	}

	resp = e.do(t, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Totals models.CartTotals `json:"totals"`
	}
	decode(t, resp, &out)
	assert.True(t, out.Totals.Subtotal.Equal(decimal.RequireFromString("399.97")), "subtotal = %s", out.Totals.Subtotal)
	assert.True(t, out.Totals.Tax.Equal(decimal.RequireFromString("32.00")))
	assert.True(t, out.Totals.ShippingFee.IsZero())
	assert.True(t, out.Totals.Total.Equal(decimal.RequireFromString("431.97")))
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	e := newEnv(t)
	token := e.registerAndLogin(t)

	resp := e.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{"productId": 1, "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var added struct {
		CartItem models.CartItem `json:"cartItem"`
	}
	decode(t, resp, &added)

	resp = e.do(t, http.MethodPut, "/api/cart/items/"+itoa(added.CartItem.ID), token, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Empty(t, e.carts.cart.Items)
}

func TestCartCount(t *testing.T) {
	e := newEnv(t)
	token := e.registerAndLogin(t)

	resp := e.do(t, http.MethodPost, "/api/cart/items", token, map[string]any{"productId": 1, "quantity": 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = e.do(t, http.MethodGet, "/api/cart/count", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Count int `json:"count"`
	}
	decode(t, resp, &out)
	assert.Equal(t, 3, out.Count)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	e := newEnv(t)
	token := e.registerAndLogin(t)

	resp := e.do(t, http.MethodPost, "/api/user/change-password", token, map[string]string{
		"currentPassword": "nope", "newPassword": "newsecret",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
