package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/export"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/response"
)

func parseRange(c *gin.Context) (service.DateRange, bool) {
	r := service.DateRange(c.DefaultQuery("range", string(service.Range30d)))
	switch r {
	case service.Range7d, service.Range30d, service.Range90d, service.RangeAll:
		return r, true
	}
	response.BadRequest(c, "rango inválido: usa 7d, 30d, 90d o all")
	return "", false
}

// GetAnalytics returns the cached analytics snapshot for a date range.
// @Summary Analytics snapshot
// @Tags analytics
// @Param range query string false "7d | 30d | 90d | all" default(30d)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/analytics [get]
func (h *Handler) GetAnalytics(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	snap, err := h.analytics.Snapshot(c.Request.Context(), r)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, snap)
}

// ExportAnalytics downloads the analytics report as a sectioned CSV.
// @Summary Export analytics CSV
// @Tags analytics
// @Produce text/csv
// @Param range query string false "7d | 30d | 90d | all" default(30d)
// @Success 200 {string} string "CSV file"
// @Router /api/v1/analytics/export [get]
func (h *Handler) ExportAnalytics(c *gin.Context) {
	r, ok := parseRange(c)
	if !ok {
		return
	}
	snap, err := h.analytics.Snapshot(c.Request.Context(), r)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	name := fmt.Sprintf("reluvsa-analytics-%s-%s.csv", r, snap.GeneratedAt.Format("02-01-2006"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(200, "text/csv; charset=utf-8", export.Analytics(snap))
}

// GetDashboard returns the landing-screen summary.
// @Summary Dashboard summary
// @Tags dashboard
// @Success 200 {object} response.Response
// @Router /api/v1/dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, summary)
}
