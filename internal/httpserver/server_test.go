package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	pkgdb "github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	authmw "github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, pkgdb.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store := &repo.GormRepo{DB: db}
	m := metrics.New("test")
	authSvc := &service.AuthService{
		Repo:       store,
		JWTSecret:  []byte("test-jwt-secret"),
		BcryptCost: bcrypt.MinCost,
		Metrics:    m,
	}
	orders := &service.OrderService{Repo: store, Metrics: m}
	cart := &service.CartService{Repo: store, Orders: orders}

	e := NewEcho(logging.NewWithWriter(io.Discard, "error"), "*", m)
	Register(e, &Deps{
		UserHandler:    &UserHTTP{Svc: authSvc, Cart: cart},
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Repo: store}},
		OrderHandler:   &OrderHTTP{Svc: orders},
		CartHandler:    &CartHTTP{Svc: cart},
		Auth:           authmw.NewBearer(authSvc),
		Metrics:        m,
		Ready:          func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
	})
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func registerAndLogin(t *testing.T, e *echo.Echo, email string) (userID, token string) {
	t.Helper()

	status, env := do(t, e, http.MethodPost, "/api/users/register", "", map[string]any{
		"email":      email,
		"name":       "Taro",
		"password":   "secret1",
		"address":    "Tokyo, Chiyoda 1-1",
		"postalCode": "1000001",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	status, env = do(t, e, http.MethodPost, "/api/users/login", "", map[string]any{
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, status, env.Error)

	login := decode[struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}](t, env.Data)
	require.NotEmpty(t, login.Token)
	return login.User.ID, login.Token
}

func createProduct(t *testing.T, e *echo.Echo, name string, price, stock int64) string {
	t.Helper()

	status, env := do(t, e, http.MethodPost, "/api/products", "", map[string]any{
		"name":        name,
		"description": name + " description",
		"price":       price,
		"stock":       stock,
		"category":    "drinks",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	p := decode[struct {
		ID string `json:"id"`
	}](t, env.Data)
	return p.ID
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestUnknownRoute(t *testing.T) {
	e := newTestServer(t)

	status, env := do(t, e, http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
	assert.Equal(t, msgNotFound, env.Error)
}

func TestRegisterAndMe(t *testing.T) {
	e := newTestServer(t)
	userID, token := registerAndLogin(t, e, "taro@example.com")

	status, env := do(t, e, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	me := decode[map[string]any](t, env.Data)
	assert.Equal(t, userID, me["id"])
	assert.Equal(t, "taro@example.com", me["email"])
	assert.NotContains(t, me, "password")
	assert.NotContains(t, me, "passwordHash")

	status, env = do(t, e, http.MethodPost, "/api/users/register", "", map[string]any{
		"email": "taro@example.com", "name": "T", "password": "secret1", "address": "Tokyo", "postalCode": "1000001",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.ErrDuplicateEmail.Msg, env.Error)

	status, env = do(t, e, http.MethodPut, "/api/users/address", token, map[string]any{
		"address": "Osaka", "postalCode": "5300001",
	})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "Osaka", decode[map[string]any](t, env.Data)["address"])
}

func TestLoginFailures(t *testing.T) {
	e := newTestServer(t)
	registerAndLogin(t, e, "taro@example.com")

	status, env := do(t, e, http.MethodPost, "/api/users/login", "", map[string]any{
		"email": "taro@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, service.ErrInvalidCredentials.Msg, env.Error)

	status, _ = do(t, e, http.MethodPost, "/api/users/login", "", map[string]any{"email": "taro@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAuthRequired(t *testing.T) {
	e := newTestServer(t)

	status, env := do(t, e, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, service.ErrMissingToken.Msg, env.Error)

	status, env = do(t, e, http.MethodPost, "/api/orders", "garbage", map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, service.ErrInvalidToken.Msg, env.Error)
}

func TestMalformedBody(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, msgInvalidBody, env.Error)
}

func TestProductLifecycle(t *testing.T) {
	e := newTestServer(t)
	id := createProduct(t, e, "Tea", 800, 3)

	status, env := do(t, e, http.MethodGet, "/api/products/"+id, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.EqualValues(t, 800, decode[map[string]any](t, env.Data)["price"])

	status, env = do(t, e, http.MethodGet, "/api/products?category=drinks", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	status, env = do(t, e, http.MethodGet, "/api/products/search?q=TEA", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	status, env = do(t, e, http.MethodPut, "/api/products/"+id, "", map[string]any{
		"name": "Tea", "description": "d", "price": 0, "stock": 1, "category": "drinks",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, service.ErrInvalidPrice.Msg, env.Error)

	status, env = do(t, e, http.MethodDelete, "/api/products/"+id, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, env.Message)

	status, env = do(t, e, http.MethodGet, "/api/products/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, service.ErrProductNotFound.Msg, env.Error)
}

func TestOrderFlow(t *testing.T) {
	e := newTestServer(t)
	ownerID, owner := registerAndLogin(t, e, "owner@example.com")
	_, intruder := registerAndLogin(t, e, "intruder@example.com")
	productID := createProduct(t, e, "Tea", 100, 5)

	status, env := do(t, e, http.MethodPost, "/api/orders", owner, map[string]any{
		"items": []map[string]any{{"productId": productID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	order := decode[struct {
		ID          string `json:"id"`
		UserID      string `json:"userId"`
		TotalAmount int64  `json:"totalAmount"`
		Status      string `json:"status"`
		Items       []struct {
			ProductID string `json:"productId"`
			Quantity  int64  `json:"quantity"`
			Price     int64  `json:"price"`
		} `json:"items"`
	}](t, env.Data)
	assert.Equal(t, ownerID, order.UserID)
	assert.EqualValues(t, 200, order.TotalAmount)
	assert.Equal(t, "pending", order.Status)
	require.Len(t, order.Items, 1)

	status, env = do(t, e, http.MethodGet, "/api/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, decode[map[string]any](t, env.Data)["stock"])

	status, env = do(t, e, http.MethodPost, "/api/orders", owner, map[string]any{
		"items": []map[string]any{{"productId": productID, "quantity": 10}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "Tea")

	status, _ = do(t, e, http.MethodPost, "/api/orders", owner, map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, e, http.MethodGet, "/api/orders/"+order.ID, intruder, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, e, http.MethodGet, "/api/orders/user/"+ownerID, intruder, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = do(t, e, http.MethodGet, "/api/orders/user/"+ownerID, owner, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	status, _ = do(t, e, http.MethodPatch, "/api/orders/"+order.ID+"/status", owner, map[string]any{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, e, http.MethodPatch, "/api/orders/"+order.ID+"/status", owner, map[string]any{"status": "shipped"})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "shipped", decode[map[string]any](t, env.Data)["status"])

	status, _ = do(t, e, http.MethodGet, "/api/orders/does-not-exist", owner, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCartCheckoutAndLogout(t *testing.T) {
	e := newTestServer(t)
	_, token := registerAndLogin(t, e, "cart@example.com")
	productID := createProduct(t, e, "Tea", 100, 5)

	status, env := do(t, e, http.MethodPost, "/api/cart/items", token, map[string]any{"productId": productID, "quantity": 2})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.EqualValues(t, 200, decode[map[string]any](t, env.Data)["subtotal"])

	status, env = do(t, e, http.MethodPost, "/api/cart/checkout", token, nil)
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.EqualValues(t, 200, decode[map[string]any](t, env.Data)["totalAmount"])

	status, env = do(t, e, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[map[string]any](t, env.Data)["items"])

	status, _ = do(t, e, http.MethodPost, "/api/cart/items", token, map[string]any{"productId": productID, "quantity": 1})
	require.Equal(t, http.StatusOK, status)
	status, _ = do(t, e, http.MethodPost, "/api/users/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = do(t, e, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[map[string]any](t, env.Data)["items"])
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestServer(t)
	createProduct(t, e, "Tea", 100, 1)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
}
