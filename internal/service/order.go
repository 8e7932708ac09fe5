package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type OrderService struct {
	Repo    *repo.GormRepo
	Metrics *metrics.Metrics
}

// PlaceOrder reserves stock for every item and persists the order in one
// transaction. Any failure leaves all stock levels as they were.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, items []transport.OrderItemRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", userID)

	if err := validateOrderItems(items); err != nil {
		s.Metrics.OrderRejected("invalid")
		return nil, err
	}

	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		lines := make([]models.OrderItem, 0, len(items))
		var total int64

		for _, it := range items {
			p, err := tx.GetProduct(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return ErrProductNotFound.withf("商品ID %s が見つかりません", it.ProductID)
				}
				return fmt.Errorf("get product %s: %w", it.ProductID, err)
			}

			if err := tx.ReserveStock(ctx, p.ID, it.Quantity); err != nil {
				if errors.Is(err, repo.ErrInsufficientStock) {
					return ErrInsufficientStock.withf("商品「%s」の在庫が不足しています", p.Name)
				}
				return fmt.Errorf("reserve stock %s: %w", p.ID, err)
			}

			amount, ok := lineAmount(p.Price, it.Quantity)
			if !ok {
				return ErrAmountTooLarge
			}
			if total, ok = addAmount(total, amount); !ok {
				return ErrAmountTooLarge
			}
			lines = append(lines, models.OrderItem{
				ProductID: p.ID,
				Quantity:  it.Quantity,
				Price:     p.Price,
				Name:      p.Name,
			})
		}

		order = &models.Order{
			UserID:      userID,
			Items:       lines,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
		}
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientStock):
			s.Metrics.OrderRejected("insufficient_stock")
		case errors.Is(err, ErrProductNotFound):
			s.Metrics.OrderRejected("product_not_found")
		case errors.Is(err, ErrAmountTooLarge):
			s.Metrics.OrderRejected("amount_too_large")
		default:
			return nil, fmt.Errorf("place order: %w", err)
		}
		l.Warn("order_rejected", "error", err)
		return nil, err
	}

	s.Metrics.OrderPlaced(order.TotalAmount)
	l.Info("order_placed", "order_id", order.ID, "total", order.TotalAmount, "items", len(order.Items))
	return order, nil
}

func (s *OrderService) ListOrdersForUser(ctx context.Context, requesterID, targetUserID string) ([]models.Order, error) {
	if requesterID != targetUserID {
		return nil, ErrOrderAccessDenied
	}
	return s.Repo.ListOrdersByUser(ctx, targetUserID)
}

func (s *OrderService) GetOrder(ctx context.Context, requesterID, orderID string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != requesterID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

// UpdateStatus sets any of the known statuses; transitions are not restricted
// to the pending, confirmed, shipped, delivered sequence.
func (s *OrderService) UpdateStatus(ctx context.Context, requesterID, orderID string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != requesterID {
		return nil, ErrOrderUpdateDenied
	}

	if err := s.Repo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update status: %w", err)
	}

	logging.FromContext(ctx).Info("order_status_updated", "order_id", orderID, "from", order.Status, "to", status)
	return s.Repo.GetOrder(ctx, orderID)
}
