package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockDetailRequest appends a line item to an existing transaction.
type CreateStockDetailRequest struct {
	TransactionID int64 `json:"transaction_id" validate:"required,min=1"`
	StockDetailInput
}

// UpdateStockDetailRequest edits a line. Quantity is re-signed from the
// parent transaction type.
type UpdateStockDetailRequest struct {
	ProductID   *int64           `json:"product_id"   validate:"omitempty,min=1"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TotalPrice  *decimal.Decimal `json:"total_price"  validate:"omitempty,gte=0"`
	BatchNumber *string          `json:"batch_number" validate:"omitempty,max=100"`
	ExpiryDate  *string          `json:"expiry_date"  validate:"omitempty,datetime=2006-01-02"`
	Notes       *string          `json:"notes"`
}

type StockDetailFilter struct {
	ProductID     int64  `form:"product_id"`
	TransactionID int64  `form:"transaction_id"`
	MovementType  string `form:"movement_type" validate:"omitempty,oneof=IN OUT"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type StockDetailResponse struct {
	ID            int64           `json:"detail_id"`
	TransactionID int64           `json:"transaction_id"`
	ProductID     int64           `json:"product_id"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	BatchNumber   *string         `json:"batch_number"`
	ExpiryDate    *string         `json:"expiry_date"`
	Notes         *string         `json:"notes"`
	MovementType  string          `json:"movement_type"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type StockDetailListResponse struct {
	Data       []StockDetailResponse `json:"data"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}
