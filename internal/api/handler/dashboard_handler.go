package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidshare/vidshare/internal/core/ports"
)

type DashboardHandler struct {
	dashboard ports.DashboardService
}

func NewDashboardHandler(dashboard ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Plays handles GET /v1/dashboard/plays.
//
// @Summary      Play counts per video
// @Description  Ranked by plays, descending. Admin only.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  playReportResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/dashboard/plays [get]
func (h *DashboardHandler) Plays(c echo.Context) error {
	report, err := h.dashboard.PlayReport(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, playReportResponse{Items: report})
}
