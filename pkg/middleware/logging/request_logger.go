package loggingmw

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artisan_market/pkg/logging"
	"github.com/Skotchmaster/artisan_market/pkg/middleware/session"
)

// RequestLogger puts a request scoped logger into the request context and
// writes one request_completed line per request, tagged with the cart
// session and user resolved further down the chain. Requests without an
// X-Request-ID get one.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			l := base.With(
				"request_id", rid,
				"method", req.Method,
				"route", c.Path(),
				"remote_ip", c.RealIP(),
			)
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			status := c.Response().Status

			attrs := []any{
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes_in", req.ContentLength,
				"bytes_out", c.Response().Size,
			}
			if key := session.Key(c); key != "" {
				attrs = append(attrs, "session", key)
			}
			if uid, ok := session.UserID(c); ok {
				attrs = append(attrs, "user_id", uid)
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}
			if status >= http.StatusBadRequest {
				attrs = append(attrs, "url", req.URL.RequestURI(), "user_agent", req.UserAgent())
			}

			l.Log(c.Request().Context(), levelFor(status), "request_completed", attrs...)
			return nil
		}
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
