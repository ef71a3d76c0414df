package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carehub/carehub/internal/platform/auth"
)

// Logger writes one line per request. When the request carries a resolved
// session, the line also records who acted and with which role, so writes to
// profiles and requests can be traced back to an identity.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt = evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())

			// The auth middleware runs inside this one and swaps the request
			// context, so the session is read back after next(c).
			if sess := auth.SessionFromContext(c.Request().Context()); sess.IsAuthenticated() {
				evt = evt.
					Str("identity", sess.Identity).
					Str("role", string(sess.Role))
			}

			evt.Msg("request")

			return err
		}
	}
}
