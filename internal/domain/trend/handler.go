package trend

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
	api.GET("/patients/:name/trend", h.Trend)
	api.GET("/patients/:name/latest", h.LatestReport)
}

// Trend serves GET /patients/:name/trend?metric=TAV&window=6m. Without a
// metric it returns the full series set.
func (h *Handler) Trend(c echo.Context) error {
	w, err := ParseWindow(c.QueryParam("window"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	name := c.Param("name")

	if metric := c.QueryParam("metric"); metric != "" {
		series, err := h.service.Trend(ctx, name, metric, w)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(http.StatusOK, series)
	}

	series, err := h.service.Trends(ctx, name, w)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, series)
}

func (h *Handler) LatestReport(c echo.Context) error {
	report, err := h.service.LatestReport(c.Request().Context(), c.Param("name"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, record.ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case record.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return err
}
