package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/carehub/internal/domain/session"
	"github.com/carehub/carehub/internal/platform/auth"
	"github.com/carehub/carehub/internal/platform/httperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes mounts the unauthenticated credential endpoints.
func (h *Handler) RegisterPublicRoutes(e *echo.Echo) {
	e.POST("/auth/signup", h.SignUp)
	e.POST("/auth/login", h.SignIn)
}

// RegisterRoutes mounts the endpoints that need an authenticated session.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/logout", h.SignOut)
	api.GET("/session", h.Session)
}

func (h *Handler) SignUp(c echo.Context) error {
	var in SignUpInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	creds, err := h.svc.SignUp(c.Request().Context(), in)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, creds)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) SignIn(c echo.Context) error {
	var in signInRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	creds, err := h.svc.SignIn(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, creds)
}

func (h *Handler) SignOut(c echo.Context) error {
	sess := auth.SessionFromContext(c.Request().Context())
	if err := h.svc.SignOut(c.Request().Context(), sess); err != nil {
		return httperr.From(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type sessionResponse struct {
	Status     session.Status     `json:"status"`
	Identity   string             `json:"userId,omitempty"`
	Role       session.Role       `json:"role,omitempty"`
	Capability session.Capability `json:"capability"`
}

// Session reports the caller's resolved state and the area it routes to.
func (h *Handler) Session(c echo.Context) error {
	sess := auth.SessionFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, sessionResponse{
		Status:     sess.Status,
		Identity:   sess.Identity,
		Role:       sess.Role,
		Capability: session.Resolve(sess),
	})
}
