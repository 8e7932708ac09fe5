package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	pkgdb "github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type testEnv struct {
	Repo    *repo.GormRepo
	Metrics *metrics.Metrics
	Auth    *AuthService
	Catalog *CatalogService
	Orders  *OrderService
	Cart    *CartService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, pkgdb.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := &repo.GormRepo{DB: db}
	m := metrics.New("test")
	orders := &OrderService{Repo: r, Metrics: m}
	return &testEnv{
		Repo:    r,
		Metrics: m,
		Auth: &AuthService{
			Repo:       r,
			JWTSecret:  []byte("test-jwt-secret"),
			BcryptCost: bcrypt.MinCost,
			Metrics:    m,
		},
		Catalog: &CatalogService{Repo: r},
		Orders:  orders,
		Cart:    &CartService{Repo: r, Orders: orders},
	}
}

func (env *testEnv) seedProduct(t *testing.T, name string, price, stock int64) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Stock:       stock,
		Category:    "general",
	}
	require.NoError(t, env.Repo.CreateProduct(context.Background(), p))
	return p
}

func (env *testEnv) stockOf(t *testing.T, id string) int64 {
	t.Helper()
	p, err := env.Repo.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func validRegistration(email string) transport.RegisterRequest {
	return transport.RegisterRequest{
		Email:      email,
		Name:       "Taro",
		Password:   "secret1",
		Address:    "Tokyo, Chiyoda 1-1",
		PostalCode: "1000001",
	}
}

func int64p(v int64) *int64 { return &v }
