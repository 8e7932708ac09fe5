package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgdb "github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := pkgdb.Open(context.Background(), pkgdb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, pkgdb.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &GormRepo{DB: db}
}

func createProduct(t *testing.T, r *GormRepo, name string, stock int64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Description: "d", Price: 100, Stock: stock, Category: "general"}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func TestReserveStock(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, r, "Tea", 3)

	require.NoError(t, r.ReserveStock(ctx, p.ID, 2))
	require.ErrorIs(t, r.ReserveStock(ctx, p.ID, 2), ErrInsufficientStock)
	require.NoError(t, r.ReserveStock(ctx, p.ID, 1))
	require.ErrorIs(t, r.ReserveStock(ctx, "missing", 1), ErrInsufficientStock)

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Stock)
}

func TestReserveStock_ChecksCurrentStockNotEarlierRead(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, r, "Last One", 1)

	seen, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, seen.Stock)

	// another buyer takes the unit after our read
	require.NoError(t, r.ReserveStock(ctx, p.ID, 1))

	require.ErrorIs(t, r.ReserveStock(ctx, seen.ID, seen.Stock), ErrInsufficientStock)

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Stock)
}

func TestTransactionRollsBack(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	p := createProduct(t, r, "Tea", 3)

	boom := errors.New("boom")
	err := r.Transaction(ctx, func(tx *GormRepo) error {
		require.NoError(t, tx.ReserveStock(ctx, p.ID, 3))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Stock)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := &models.User{Email: "a@example.com", Name: "A", PasswordHash: "x", Address: "Tokyo", PostalCode: "1000001"}
	require.NoError(t, r.CreateUser(ctx, u))
	assert.NotEmpty(t, u.ID)

	dup := &models.User{Email: "a@example.com", Name: "B", PasswordHash: "y", Address: "Osaka", PostalCode: "5300001"}
	require.ErrorIs(t, r.CreateUser(ctx, dup), ErrDuplicate)
}

func TestNotFoundTranslation(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.UpdateUserAddress(ctx, "missing", "Tokyo", "1000001")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.UpdateOrderStatus(ctx, "missing", models.OrderStatusShipped), ErrNotFound)
	assert.ErrorIs(t, r.DeleteProduct(ctx, "missing"), ErrNotFound)
	assert.ErrorIs(t, r.ReplaceProduct(ctx, &models.Product{ID: "missing", Name: "x", Price: 1}), ErrNotFound)
	assert.ErrorIs(t, r.DeleteCartItem(ctx, "u1", "missing"), ErrNotFound)
}

func TestSearchProducts_EscapesWildcards(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	createProduct(t, r, "100% Juice", 1)
	createProduct(t, r, "1000 Piece Puzzle", 1)

	items, err := r.SearchProducts(ctx, "100%", 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "100% Juice", items[0].Name)

	items, err = r.SearchProducts(ctx, "PUZZLE", 10, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestOrderRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	order := &models.Order{
		UserID:      "u1",
		TotalAmount: 700,
		Status:      models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: "p1", Quantity: 2, Price: 200, Name: "Tea"},
			{ProductID: "p2", Quantity: 1, Price: 300, Name: "Cup"},
		},
	}
	require.NoError(t, r.CreateOrder(ctx, order))

	got, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Tea", got.Items[0].Name)
	assert.Equal(t, "Cup", got.Items[1].Name)

	require.NoError(t, r.UpdateOrderStatus(ctx, order.ID, models.OrderStatusShipped))
	list, err := r.ListOrdersByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.OrderStatusShipped, list[0].Status)
	assert.Len(t, list[0].Items, 2)
}

func TestCartQuantities(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetCartQuantity(ctx, "u1", "p1", 2))
	require.NoError(t, r.SetCartQuantity(ctx, "u1", "p1", 5))
	require.NoError(t, r.SetCartQuantity(ctx, "u1", "p2", 1))

	items, err := r.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	item, err := r.GetCartItem(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 5, item.Quantity)

	require.NoError(t, r.ClearCart(ctx, "u1"))
	items, err = r.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
