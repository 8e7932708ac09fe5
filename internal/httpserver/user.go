package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	authmw "github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type UserHTTP struct {
	Svc  *service.AuthService
	Cart *service.CartService
}

func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "register_error", err)
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(c, l, "register_error", err, "ユーザー登録中にエラーが発生しました")
	}

	l.Info("register_success", "user_id", user.ID)
	return ok(c, http.StatusCreated, transport.NewUserView(user), "ユーザーが正常に登録されました")
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, l, "login_error", err, "ログイン中にエラーが発生しました")
	}

	l.Info("login_success", "user_id", res.User.ID)
	return ok(c, http.StatusOK, transport.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User: transport.UserSummary{
			ID:    res.User.ID,
			Email: res.User.Email,
			Name:  res.User.Name,
		},
	}, "ログインに成功しました")
}

func (h *UserHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.me")

	user, err := h.Svc.Profile(ctx, authmw.UserID(c))
	if err != nil {
		return fail(c, l, "me_error", err, "ユーザー情報の取得中にエラーが発生しました")
	}
	return ok(c, http.StatusOK, transport.NewUserView(user), "")
}

func (h *UserHTTP) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_address")

	var req transport.UpdateAddressRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "update_address_error", err)
	}

	user, err := h.Svc.UpdateAddress(ctx, authmw.UserID(c), req.Address, req.PostalCode)
	if err != nil {
		return fail(c, l, "update_address_error", err, "住所の更新中にエラーが発生しました")
	}

	l.Info("update_address_success")
	return ok(c, http.StatusOK, transport.NewUserView(user), "住所が正常に更新されました")
}

// Logout ends the server-side session state. The bearer token itself stays
// valid until it expires.
func (h *UserHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.logout")

	if err := h.Cart.Clear(ctx, authmw.UserID(c)); err != nil {
		return fail(c, l, "logout_error", err, "ログアウト中にエラーが発生しました")
	}

	l.Info("logout_success")
	return ok(c, http.StatusOK, nil, "ログアウトしました")
}
