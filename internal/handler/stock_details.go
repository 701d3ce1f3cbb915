package handler

import (
	"net/http"

	"github.com/Pahari47/parkson-assignment/internal/dto"
	"github.com/Pahari47/parkson-assignment/internal/service"

	"github.com/gin-gonic/gin"
)

// StockDetailsHandler exposes individual line items. Lines cannot be deleted
// through the API; remove the whole transaction instead.
type StockDetailsHandler struct{ svc service.TransactionService }

func NewStockDetailsHandler(svc service.TransactionService) *StockDetailsHandler {
	return &StockDetailsHandler{svc: svc}
}

// List godoc
// @Summary      List stock lines
// @Tags         stock-details
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.StockDetailListResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/stock-details [get]
func (h *StockDetailsHandler) List(c *gin.Context) {
	var filter dto.StockDetailFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListDetails(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Get a stock line
// @Tags         stock-details
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int  true "Line ID"
// @Success      200  {object} dto.StockDetailResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/stock-details/{id} [get]
func (h *StockDetailsHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary      Append a line to a transaction
// @Tags         stock-details
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateStockDetailRequest true "Line"
// @Success      201  {object} dto.StockDetailResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/stock-details [post]
func (h *StockDetailsHandler) Create(c *gin.Context) {
	var req dto.CreateStockDetailRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AppendDetail(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Update a stock line
// @Tags         stock-details
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int  true "Line ID"
// @Param        body body     dto.UpdateStockDetailRequest true "Line changes"
// @Success      200  {object} dto.StockDetailResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/stock-details/{id} [put]
func (h *StockDetailsHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStockDetailRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateDetail(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
