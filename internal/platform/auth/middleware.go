package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carehub/carehub/internal/domain/session"
)

type contextKey string

// SessionKey holds the resolved session.State on the request context.
const SessionKey contextKey = "session"

// SessionResolver is the slice of the session resolver the middleware needs:
// a synchronous role resolution for one bearer identity.
type SessionResolver interface {
	ResolveIdentity(ctx context.Context, identity string) session.State
}

// Middleware verifies the bearer token, resolves the caller's session state
// (including the role lookup), and stores it on the request context. Requests
// without a valid token are rejected; a failed role lookup is surfaced as 503
// rather than silently downgrading the caller to no role.
func Middleware(tokens *TokenIssuer, resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			identity, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			state := resolver.ResolveIdentity(c.Request().Context(), identity)
			if state.Status == session.StatusErrored {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "role could not be resolved")
			}

			ctx := context.WithValue(c.Request().Context(), SessionKey, state)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// SessionFromContext returns the session state placed by Middleware, or an
// unauthenticated state when none is present.
func SessionFromContext(ctx context.Context) session.State {
	if s, ok := ctx.Value(SessionKey).(session.State); ok {
		return s
	}
	return session.Unauthenticated()
}

// RequireRole returns middleware that admits only sessions holding one of
// the given roles. Admins pass every role check.
func RequireRole(roles ...session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := SessionFromContext(c.Request().Context())
			if !state.IsAuthenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			for _, required := range roles {
				if state.Role == required || state.Role == session.RoleAdmin {
					return next(c)
				}
			}
			names := make([]string, len(roles))
			for i, r := range roles {
				names[i] = string(r)
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(names, " or ")))
		}
	}
}
