package followup

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vasctrack/vasctrack/internal/domain/record"
	"github.com/vasctrack/vasctrack/internal/platform/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := auth.RequireRole("admin", "operator")
	api.POST("/follow-ups", h.Schedule, write)
	api.GET("/follow-ups/due", h.DueToday)
}

type scheduleRequest struct {
	PatientName string `json:"patient_name"`
	DueDate     string `json:"due_date"`
	Reason      string `json:"reason"`
}

func (h *Handler) Schedule(c echo.Context) error {
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	due, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "due_date must be YYYY-MM-DD")
	}

	fu := &FollowUp{PatientName: req.PatientName, DueDate: due, Reason: req.Reason}
	if err := h.service.Schedule(c.Request().Context(), fu); err != nil {
		if errors.Is(err, record.ErrInvalid) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusCreated, fu)
}

func (h *Handler) DueToday(c echo.Context) error {
	due, err := h.service.DueToday(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, due)
}
