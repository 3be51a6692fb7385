package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/export"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/logger"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/response"
)

// GetInventory returns the full stock snapshot with alert buckets.
// @Summary Inventory overview
// @Tags inventory
// @Success 200 {object} response.Response
// @Router /api/v1/inventory [get]
func (h *Handler) GetInventory(c *gin.Context) {
	overview, err := h.inventory.Overview(c.Request.Context())
	if err != nil {
		// List reads degrade to an empty result; only mutations surface errors.
		logger.Error("inventory overview", zap.Error(err))
		overview = &service.InventoryOverview{}
	}
	response.Success(c, overview)
}

// SearchInventory matches tire sizes loosely across separator styles.
// @Summary Search inventory
// @Tags inventory
// @Param q query string true "Size or description fragment"
// @Param limit query int false "Max results" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/inventory/search [get]
func (h *Handler) SearchInventory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, err := h.inventory.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		logger.Error("search inventory", zap.Error(err))
		items = nil
	}
	response.Success(c, gin.H{"items": items, "count": len(items)})
}

// ExportInventory downloads the stock snapshot as CSV.
// @Summary Export inventory CSV
// @Tags inventory
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Router /api/v1/inventory/export [get]
func (h *Handler) ExportInventory(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="reluvsa-inventario.csv"`)
	c.Data(200, "text/csv; charset=utf-8", export.Inventory(items))
}
