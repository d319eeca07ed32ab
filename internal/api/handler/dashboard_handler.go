package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertydesk/crm-api/internal/core/ports"
)

// DashboardHandler serves the aggregated CRM overview.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Overview handles GET /api/dashboard.
//
// @Summary      Dashboard overview
// @Tags         dashboard
// @Produce      json
// @Security     SessionAuth
// @Success      200  {object}  ports.DashboardOverview
// @Failure      401  {object}  messageResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Overview(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	overview, err := h.service.Overview(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, overview)
}
