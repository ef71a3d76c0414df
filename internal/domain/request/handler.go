package request

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehub/carehub/internal/domain/session"
	"github.com/carehub/carehub/internal/platform/auth"
	"github.com/carehub/carehub/internal/platform/httperr"
	"github.com/carehub/carehub/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Submission and own listings: any provisioned user
	userGroup := api.Group("", auth.RequireRole(session.RoleUser))
	userGroup.POST("/appointments", h.SubmitAppointment)
	userGroup.POST("/help-requests", h.SubmitHelpRequest)
	userGroup.GET("/my-appointments", h.ListMyAppointments)
	userGroup.GET("/my-help-requests", h.ListMyHelpRequests)

	// Triage-side read hook, admin only. Status transitions are not
	// exposed here; they belong to the triage collaborator.
	adminGroup := api.Group("", auth.RequireRole(session.RoleAdmin))
	adminGroup.GET("/appointments", h.ListAppointments)
	adminGroup.GET("/help-requests", h.ListHelpRequests)
}

type submitAppointmentRequest struct {
	OwnerSnapshot
	AppointmentPayload
}

type submitHelpRequest struct {
	OwnerSnapshot
	HelpPayload
}

type submitResponse struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

func (h *Handler) SubmitAppointment(c echo.Context) error {
	var req submitAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess := auth.SessionFromContext(c.Request().Context())
	id, err := h.svc.SubmitAppointment(c.Request().Context(), sess, req.OwnerSnapshot, req.AppointmentPayload)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, submitResponse{ID: id, Status: StatusPending})
}

func (h *Handler) SubmitHelpRequest(c echo.Context) error {
	var req submitHelpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess := auth.SessionFromContext(c.Request().Context())
	id, err := h.svc.SubmitHelpRequest(c.Request().Context(), sess, req.OwnerSnapshot, req.HelpPayload)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusCreated, submitResponse{ID: id, Status: StatusPending})
}

func (h *Handler) list(c echo.Context, kind Kind, ownerOnly bool) error {
	params := pagination.FromContext(c)
	opts := ListOptions{
		OwnerOnly: ownerOnly,
		Status:    Status(c.QueryParam("status")),
		Limit:     params.Limit,
		Offset:    params.Offset,
	}

	sess := auth.SessionFromContext(c.Request().Context())
	requests, total, err := h.svc.List(c.Request().Context(), sess, kind, opts)
	if err != nil {
		return httperr.From(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(requests, total, params.Limit, params.Offset))
}

func (h *Handler) ListMyAppointments(c echo.Context) error {
	return h.list(c, KindAppointment, true)
}

func (h *Handler) ListMyHelpRequests(c echo.Context) error {
	return h.list(c, KindHelp, true)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	return h.list(c, KindAppointment, false)
}

func (h *Handler) ListHelpRequests(c echo.Context) error {
	return h.list(c, KindHelp, false)
}
