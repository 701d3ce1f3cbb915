package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Code              string           `json:"product_code"        validate:"required,max=50"`
	Name              string           `json:"product_name"        validate:"required,max=200"`
	Description       *string          `json:"description"`
	Category          *string          `json:"category"            validate:"omitempty,max=100"`
	Unit              string           `json:"unit"                validate:"omitempty,max=20"`
	UnitPrice         decimal.Decimal  `json:"unit_price"          validate:"gte=0"`
	IsActive          *bool            `json:"is_active"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold" validate:"omitempty,gte=0"`
}

type UpdateProductRequest struct {
	Code        *string          `json:"product_code" validate:"omitempty,min=1,max=50"`
	Name        *string          `json:"product_name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"     validate:"omitempty,max=100"`
	Unit        *string          `json:"unit"         validate:"omitempty,min=1,max=20"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	IsActive    *bool            `json:"is_active"`
}

// ThresholdRequest sets or clears (null) the per-product low-stock threshold.
type ThresholdRequest struct {
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// MovementFilter bounds a product's movement history by transaction date (inclusive).
type MovementFilter struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                int64            `json:"product_id"`
	Code              string           `json:"product_code"`
	Name              string           `json:"product_name"`
	Description       *string          `json:"description"`
	Category          *string          `json:"category"`
	Unit              string           `json:"unit"`
	UnitPrice         decimal.Decimal  `json:"unit_price"`
	IsActive          bool             `json:"is_active"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold"`
	CurrentStock      decimal.Decimal  `json:"current_stock"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// StockMovementResponse is one line item of a product joined with its transaction header.
type StockMovementResponse struct {
	TransactionID   int64           `json:"transaction_id"`
	TransactionCode string          `json:"transaction_code"`
	TransactionType string          `json:"transaction_type"`
	TransactionDate time.Time       `json:"transaction_date"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	ReferenceNumber *string         `json:"reference_number"`
	Notes           *string         `json:"notes"`
}
