package analytics

import (
	"net/http"
	"strconv"

	"fleetflow-service/internal/pkg/response"
	service "fleetflow-service/internal/service/analytics"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Report returns the yearly financial rollup. Defaults to the current year;
// override with ?year=2024.
func (h *AnalyticsHandler) Report(c *gin.Context) {
	var year int
	if v := c.Query("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid year", err)
			return
		}
		year = n
	}

	report, err := h.analyticsService.Report(c.Request.Context(), year)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "analytics", report)
}

// Dashboard returns the headline KPI numbers.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	kpis, err := h.analyticsService.KPIs(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "dashboard", kpis)
}
