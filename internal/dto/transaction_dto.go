package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// StockDetailInput is one line item submitted with a new transaction.
// Quantity is always positive; the transaction type decides the stored sign.
type StockDetailInput struct {
	ProductID   int64            `json:"product_id"  validate:"required,min=1"`
	Quantity    decimal.Decimal  `json:"quantity"    validate:"gt=0"`
	UnitPrice   decimal.Decimal  `json:"unit_price"  validate:"gte=0"`
	TotalPrice  *decimal.Decimal `json:"total_price" validate:"omitempty,gte=0"`
	BatchNumber *string          `json:"batch_number" validate:"omitempty,max=100"`
	ExpiryDate  *string          `json:"expiry_date"  validate:"omitempty,datetime=2006-01-02"`
	Notes       *string          `json:"notes"`
}

type CreateTransactionRequest struct {
	Code             *string            `json:"transaction_code"  validate:"omitempty,min=1,max=50"`
	Type             string             `json:"transaction_type"  validate:"required,oneof=IN OUT ADJUST"`
	Date             *time.Time         `json:"transaction_date"`
	ReferenceNumber  *string            `json:"reference_number"  validate:"omitempty,max=100"`
	SupplierCustomer *string            `json:"supplier_customer" validate:"omitempty,max=200"`
	Notes            *string            `json:"notes"`
	TotalAmount      *decimal.Decimal   `json:"total_amount"      validate:"omitempty,gte=0"`
	CreatedBy        *string            `json:"created_by"        validate:"omitempty,max=100"`
	Details          []StockDetailInput `json:"details"           validate:"required,min=1,dive"`
}

// UpdateTransactionRequest edits header fields only. The type is not editable
// because the signs of the stored line quantities depend on it.
type UpdateTransactionRequest struct {
	Code             *string          `json:"transaction_code"  validate:"omitempty,min=1,max=50"`
	Date             *time.Time       `json:"transaction_date"`
	ReferenceNumber  *string          `json:"reference_number"  validate:"omitempty,max=100"`
	SupplierCustomer *string          `json:"supplier_customer" validate:"omitempty,max=200"`
	Notes            *string          `json:"notes"`
	TotalAmount      *decimal.Decimal `json:"total_amount"      validate:"omitempty,gte=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type TransactionFilter struct {
	Type      string `form:"transaction_type" validate:"omitempty,oneof=IN OUT ADJUST"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Search    string `form:"search"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransactionResponse struct {
	ID               int64                 `json:"transaction_id"`
	Code             string                `json:"transaction_code"`
	Type             string                `json:"transaction_type"`
	TypeDisplay      string                `json:"transaction_type_display"`
	Date             time.Time             `json:"transaction_date"`
	ReferenceNumber  *string               `json:"reference_number"`
	SupplierCustomer *string               `json:"supplier_customer"`
	Notes            *string               `json:"notes"`
	TotalAmount      decimal.Decimal       `json:"total_amount"`
	CreatedBy        *string               `json:"created_by"`
	Details          []StockDetailResponse `json:"details"`
	DetailsCount     int                   `json:"details_count"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

type TransactionListResponse struct {
	Data       []TransactionResponse `json:"data"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}
