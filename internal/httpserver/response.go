package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

const (
	msgInvalidBody = "リクエストボディが不正です"
	msgNotFound    = "ページが見つかりません"
	msgInternal    = "サーバー内部エラーが発生しました"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the envelope for a service error. Unclassified errors are logged
// in full and answered with internalMsg only.
func fail(c echo.Context, l *slog.Logger, event string, err error, internalMsg string) error {
	status := statusOf(err)
	msg, ok := service.Message(err)
	if status == http.StatusInternalServerError || !ok {
		l.Error(event, "status", http.StatusInternalServerError, "reason", internalMsg, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail(internalMsg))
	}
	l.Warn(event, "status", status, "reason", msg, "error", err)
	return c.JSON(status, transport.Fail(msg))
}

func badBody(c echo.Context, l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
	return c.JSON(http.StatusBadRequest, transport.Fail(msgInvalidBody))
}

func ok(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, transport.OK(data, message))
}

// ErrorHandler renders framework errors (unknown route, wrong method,
// recovered panics) in the API envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := msgInternal

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch status {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			msg = msgNotFound
		case http.StatusInternalServerError:
		default:
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(status)
			}
		}
	}
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, transport.Fail(msg))
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}
