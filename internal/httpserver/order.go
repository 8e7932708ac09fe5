package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	authmw "github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "create_order_error", err)
	}

	order, err := h.Svc.PlaceOrder(ctx, authmw.UserID(c), req.Items)
	if err != nil {
		return fail(c, l, "create_order_error", err, "注文の作成中にエラーが発生しました")
	}

	l.Info("create_order_success", "order_id", order.ID)
	return ok(c, http.StatusCreated, order, "注文が正常に作成されました")
}

func (h *OrderHTTP) ListUserOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_user")

	orders, err := h.Svc.ListOrdersForUser(ctx, authmw.UserID(c), c.Param("userId"))
	if err != nil {
		return fail(c, l, "list_orders_error", err, "注文履歴の取得中にエラーが発生しました")
	}
	return ok(c, http.StatusOK, orders, "")
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	order, err := h.Svc.GetOrder(ctx, authmw.UserID(c), c.Param("id"))
	if err != nil {
		return fail(c, l, "get_order_error", err, "注文の取得中にエラーが発生しました")
	}
	return ok(c, http.StatusOK, order, "")
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "update_status_error", err)
	}

	order, err := h.Svc.UpdateStatus(ctx, authmw.UserID(c), c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		return fail(c, l, "update_status_error", err, "注文ステータスの更新中にエラーが発生しました")
	}

	l.Info("update_status_success", "order_id", order.ID, "status", order.Status)
	return ok(c, http.StatusOK, transport.OrderStatusView{
		ID:        order.ID,
		Status:    order.Status,
		UpdatedAt: order.UpdatedAt,
	}, "注文ステータスが正常に更新されました")
}
