package cohort

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vasctrack/vasctrack/internal/domain/record"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/cohorts/compare", h.Compare)
}

type compareRequest struct {
	CategoryA string   `json:"category_a"`
	CategoryB string   `json:"category_b"`
	Metrics   []string `json:"metrics"`
}

func (h *Handler) Compare(c echo.Context) error {
	var req compareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cmp, err := h.service.Compare(c.Request().Context(), req.CategoryA, req.CategoryB, req.Metrics)
	if err != nil {
		if errors.Is(err, record.ErrInvalid) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, cmp)
}
