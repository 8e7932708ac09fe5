package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	authmw "github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	cart, err := h.Svc.GetCart(ctx, authmw.UserID(c))
	if err != nil {
		return fail(c, l, "get_cart_error", err, "カートの取得中にエラーが発生しました")
	}
	return ok(c, http.StatusOK, cart, "")
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "add_cart_item_error", err)
	}

	cart, err := h.Svc.AddItem(ctx, authmw.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, l, "add_cart_item_error", err, "カートへの追加中にエラーが発生しました")
	}
	return ok(c, http.StatusOK, cart, "カートに追加しました")
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	var req transport.CartQuantityRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "set_cart_quantity_error", err)
	}

	cart, err := h.Svc.SetQuantity(ctx, authmw.UserID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		return fail(c, l, "set_cart_quantity_error", err, "カートの更新中にエラーが発生しました")
	}
	return ok(c, http.StatusOK, cart, "カートを更新しました")
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	cart, err := h.Svc.RemoveItem(ctx, authmw.UserID(c), c.Param("productId"))
	if err != nil {
		return fail(c, l, "remove_cart_item_error", err, "カートの更新中にエラーが発生しました")
	}
	return ok(c, http.StatusOK, cart, "カートから削除しました")
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	if err := h.Svc.Clear(ctx, authmw.UserID(c)); err != nil {
		return fail(c, l, "clear_cart_error", err, "カートの更新中にエラーが発生しました")
	}
	return ok(c, http.StatusOK, nil, "カートを空にしました")
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	order, err := h.Svc.Checkout(ctx, authmw.UserID(c))
	if err != nil {
		return fail(c, l, "checkout_error", err, "注文の作成中にエラーが発生しました")
	}

	l.Info("checkout_success", "order_id", order.ID)
	return ok(c, http.StatusCreated, order, "注文が正常に作成されました")
}
