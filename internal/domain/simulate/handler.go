package simulate

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vasctrack/vasctrack/internal/platform/auth"
)

type Handler struct {
	table Table
}

func NewHandler(table Table) *Handler {
	return &Handler{table: table}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("admin", "operator")
	api.POST("/simulate", h.Simulate, role)
}

type simulateRequest struct {
	FV       float64 `json:"fv"`
	RI       float64 `json:"ri"`
	Diameter float64 `json:"diameter"`
}

func (h *Handler) Simulate(c echo.Context) error {
	req := simulateRequest{FV: BaselineFV, RI: BaselineRI, Diameter: BaselineDiameter}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.table.Simulate(req.FV, req.RI, req.Diameter))
}
