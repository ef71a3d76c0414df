package profile

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/carehub/internal/platform/auth"
	"github.com/carehub/carehub/internal/platform/httperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/profile", h.GetProfile)
	api.PUT("/profile", h.UpdateProfile)
}

func (h *Handler) GetProfile(c echo.Context) error {
	sess := auth.SessionFromContext(c.Request().Context())
	p, err := h.svc.Fetch(c.Request().Context(), sess)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	sess := auth.SessionFromContext(c.Request().Context())

	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if err := h.svc.Update(ctx, sess, sess.Identity, patch); err != nil {
		return httperr.From(err)
	}

	p, err := h.svc.Fetch(ctx, sess)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, p)
}
