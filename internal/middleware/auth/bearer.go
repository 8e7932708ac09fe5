package auth

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

// UserIDKey is the echo context key holding the authenticated user id.
const UserIDKey = "user_id"

type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type Bearer struct {
	mw echo.MiddlewareFunc
}

func NewBearer(v TokenVerifier) *Bearer {
	mw := echojwt.WithConfig(echojwt.Config{
		ContextKey:  UserIDKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return v.VerifyToken(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l := logging.FromContext(c.Request().Context()).With("middleware", "auth.bearer")
			if errors.Is(err, echojwt.ErrJWTMissing) {
				l.Warn("auth_error", "status", 401, "reason", "missing token", "error", err)
				return c.JSON(http.StatusUnauthorized, transport.Fail(service.ErrMissingToken.Msg))
			}
			l.Warn("auth_error", "status", 403, "reason", "invalid token", "error", err)
			return c.JSON(http.StatusForbidden, transport.Fail(service.ErrInvalidToken.Msg))
		},
	})
	return &Bearer{mw: mw}
}

func (b *Bearer) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return b.mw(next)
}

// UserID returns the id stored by RequireLogin, or "" on unauthenticated routes.
func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}
