package handler

import (
	"net/http"

	"github.com/Pahari47/parkson-assignment/internal/apierror"
	"github.com/Pahari47/parkson-assignment/internal/dto"
	"github.com/Pahari47/parkson-assignment/internal/middleware"
	"github.com/Pahari47/parkson-assignment/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Product"
// @Success      201  {object} dto.ProductResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List products
// @Description  Paginated catalogue with current stock per product.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        search    query string false "Search by code or name"
// @Param        category  query string false "Category"
// @Param        is_active query bool   false "Filter by active flag"
// @Param        page      query int    false "Page number"
// @Param        limit     query int    false "Page size (max 100)"
// @Success      200  {object} dto.ProductListResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int  true "Product ID"
// @Success      200  {object} dto.ProductResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/products/{id} [get]
func (h *ProductsHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int  true "Product ID"
// @Param        body body     dto.UpdateProductRequest true "Changes"
// @Success      200  {object} dto.ProductResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Deactivate or delete a product
// @Description  Deactivates by default; ?hard=true removes the row and needs the admin role.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int  true "Product ID"
// @Param        hard query    bool false "Remove the row instead of deactivating"
// @Success      204
// @Failure      403  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if c.Query("hard") == "true" {
		if claims := middleware.GetClaims(c); claims == nil || claims.Role != service.RoleAdmin {
			c.JSON(http.StatusForbidden, apierror.New("Insufficient permissions"))
			return
		}
		if err := h.svc.HardDelete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivate godoc
// @Summary      Reactivate a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int  true "Product ID"
// @Success      200  {object} dto.ProductResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/products/{id}/reactivate [patch]
func (h *ProductsHandler) Reactivate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Reactivate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetThreshold godoc
// @Summary      Set the low-stock threshold
// @Description  A null threshold reverts the product to the global default.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int  true "Product ID"
// @Param        body body     dto.ThresholdRequest true "Threshold"
// @Success      200  {object} dto.ProductResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/products/{id}/threshold [put]
func (h *ProductsHandler) SetThreshold(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.ThresholdRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetThreshold(c.Request.Context(), id, req.LowStockThreshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockMovements godoc
// @Summary      Stock movements of a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id         path  int    true  "Product ID"
// @Param        start_date query string false "YYYY-MM-DD"
// @Param        end_date   query string false "YYYY-MM-DD"
// @Success      200  {array}  dto.StockMovementResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/products/{id}/stock-movements [get]
func (h *ProductsHandler) StockMovements(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.StockMovements(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
