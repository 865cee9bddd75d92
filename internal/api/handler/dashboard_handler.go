package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffhub/employee-api/internal/core/ports"
)

type DashboardHandler struct {
	service ports.StatsService
}

func NewDashboardHandler(service ports.StatsService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

type distributionRowResponse struct {
	DepartmentID string `json:"departmentId"`
	Name         string `json:"name"`
	Count        int64  `json:"count"`
}

type statsResponse struct {
	TotalEmployees         int64                     `json:"totalEmployees"`
	TotalDepartments       int64                     `json:"totalDepartments"`
	DepartmentDistribution []distributionRowResponse `json:"departmentDistribution"`
}

// Stats returns record totals plus the per-department employee counts.
// Departments with no employees are absent from the distribution.
//
// @Summary      Dashboard summary
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      401  {object}  errorResponse
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	distribution := make([]distributionRowResponse, 0, len(stats.Distribution))
	for _, row := range stats.Distribution {
		distribution = append(distribution, distributionRowResponse{
			DepartmentID: row.DepartmentID,
			Name:         row.Name,
			Count:        row.Count,
		})
	}

	return c.JSON(http.StatusOK, statsResponse{
		TotalEmployees:         stats.TotalEmployees,
		TotalDepartments:       stats.TotalDepartments,
		DepartmentDistribution: distribution,
	})
}
