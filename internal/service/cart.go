package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

// CartService keeps each user's pending selection server-side. Quantities are
// clamped to the stock available when the line is written; stock is only
// reserved at checkout.
type CartService struct {
	Repo   *repo.GormRepo
	Orders *OrderService
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*transport.CartView, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get cart products: %w", err)
	}

	view := &transport.CartView{Items: make([]transport.CartLine, 0, len(items))}
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		lineTotal, ok := lineAmount(p.Price, it.Quantity)
		if !ok {
			return nil, ErrAmountTooLarge
		}
		if view.Subtotal, ok = addAmount(view.Subtotal, lineTotal); !ok {
			return nil, ErrAmountTooLarge
		}
		view.Items = append(view.Items, transport.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.Quantity,
			MaxStock:  p.Stock,
			LineTotal: lineTotal,
		})
	}
	return view, nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int64) (*transport.CartView, error) {
	if productID == "" {
		return nil, ErrInvalidItem
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		p, err := s.product(ctx, tx, productID)
		if err != nil {
			return err
		}
		if p.Stock == 0 {
			return ErrInsufficientStock.withf("商品「%s」の在庫が不足しています", p.Name)
		}

		current := int64(0)
		if item, err := tx.GetCartItem(ctx, userID, productID); err == nil {
			current = item.Quantity
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		return tx.SetCartQuantity(ctx, userID, productID, min(current+quantity, p.Stock))
	})
	if err != nil {
		return nil, wrapInternal("add to cart", err)
	}
	return s.GetCart(ctx, userID)
}

// SetQuantity overwrites the line quantity. Zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int64) (*transport.CartView, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetCartItem(ctx, userID, productID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}
		p, err := s.product(ctx, tx, productID)
		if err != nil {
			return err
		}
		if p.Stock == 0 {
			return tx.DeleteCartItem(ctx, userID, productID)
		}
		return tx.SetCartQuantity(ctx, userID, productID, min(quantity, p.Stock))
	})
	if err != nil {
		return nil, wrapInternal("set cart quantity", err)
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*transport.CartView, error) {
	if err := s.Repo.DeleteCartItem(ctx, userID, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Checkout places an order for the cart contents and empties the cart. Lines
// whose product no longer exists are dropped first, matching GetCart.
func (s *CartService) Checkout(ctx context.Context, userID string) (*models.Order, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get cart products: %w", err)
	}

	req := make([]transport.OrderItemRequest, 0, len(items))
	for _, it := range items {
		if _, ok := products[it.ProductID]; !ok {
			if err := s.Repo.DeleteCartItem(ctx, userID, it.ProductID); err != nil && !errors.Is(err, repo.ErrNotFound) {
				return nil, fmt.Errorf("drop stale cart item: %w", err)
			}
			continue
		}
		req = append(req, transport.OrderItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if len(req) == 0 {
		return nil, ErrEmptyOrder
	}

	order, err := s.Orders.PlaceOrder(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.Clear(ctx, userID); err != nil {
		// order is already committed
		logging.FromContext(ctx).Error("checkout_clear_cart_failed", "order_id", order.ID, "error", err)
	}
	return order, nil
}

func (s *CartService) product(ctx context.Context, tx *repo.GormRepo, id string) (*models.Product, error) {
	p, err := tx.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// wrapInternal leaves classified errors untouched and annotates the rest.
func wrapInternal(op string, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
