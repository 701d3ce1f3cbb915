package handler

import (
	"net/http"

	"github.com/Pahari47/parkson-assignment/internal/dto"
	"github.com/Pahari47/parkson-assignment/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Summary godoc
// @Summary      Inventory summary
// @Description  Stock, value and low-stock flag per product.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.InventorySummaryRow
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/inventory-summary [get]
func (h *InventoryHandler) Summary(c *gin.Context) {
	var filter dto.InventorySummaryFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard godoc
// @Summary      Dashboard statistics
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.DashboardStats
// @Router       /api/dashboard-stats [get]
func (h *InventoryHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
