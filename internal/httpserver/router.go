package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	authmw "github.com/Skotchmaster/shop_api/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/shop_api/internal/middleware/logging"
	"github.com/Skotchmaster/shop_api/internal/metrics"
)

type Deps struct {
	UserHandler    *UserHTTP
	CatalogHandler *CatalogHTTP
	OrderHandler   *OrderHTTP
	CartHandler    *CartHTTP
	Auth           *authmw.Bearer
	Metrics        *metrics.Metrics
	// Ready reports whether dependencies (the database) are reachable.
	Ready func(ctx context.Context) error
}

// NewEcho builds the echo instance with the shared middleware chain.
func NewEcho(logger *slog.Logger, corsOrigin string, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	if corsOrigin == "" {
		corsOrigin = "*"
	}

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(m.Middleware())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{corsOrigin},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit("1M"))
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	api := e.Group("/api")

	users := api.Group("/users")
	users.POST("/register", d.UserHandler.Register)
	users.POST("/login", d.UserHandler.Login)

	me := users.Group("", d.Auth.RequireLogin)
	me.GET("/me", d.UserHandler.Me)
	me.PUT("/address", d.UserHandler.UpdateAddress)
	me.POST("/logout", d.UserHandler.Logout)

	// catalog mutations are open to any caller
	products := api.Group("/products")
	products.GET("", d.CatalogHandler.ListProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("", d.CatalogHandler.CreateProduct)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	orders := api.Group("/orders", d.Auth.RequireLogin)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/user/:userId", d.OrderHandler.ListUserOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PATCH("/:id/status", d.OrderHandler.UpdateStatus)

	cart := api.Group("/cart", d.Auth.RequireLogin)
	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("", d.CartHandler.Clear)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PUT("/items/:productId", d.CartHandler.SetQuantity)
	cart.DELETE("/items/:productId", d.CartHandler.RemoveItem)
	cart.POST("/checkout", d.CartHandler.Checkout)
}
