// Package httperr maps the shared error taxonomy onto HTTP responses at the
// handler boundary.
package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/carehub/internal/shared"
)

// From converts a service error into an echo HTTPError. Unknown errors map
// to 500 with a generic message so internals never leak to clients.
func From(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, shared.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, "permission denied")
	case errors.Is(err, shared.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, shared.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, shared.ErrInvalidCredentials.Error())
	case errors.Is(err, shared.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, "an account already exists for this email")
	case errors.Is(err, shared.ErrRoleUnresolved):
		return echo.NewHTTPError(http.StatusServiceUnavailable, shared.ErrRoleUnresolved.Error())
	}

	if field, ok := shared.IsValidation(err); ok {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{
			"error": "validation failed",
			"field": field,
		})
	}
	if shared.IsRemote(err) {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream store unavailable")
	}

	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
