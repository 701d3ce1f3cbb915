package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventorySummaryFilter struct {
	Category     string `form:"category"`
	LowStockOnly bool   `form:"low_stock_only"`
	SortBy       string `form:"sort_by"  validate:"omitempty,oneof=product_name current_stock total_value"`
	Reverse      bool   `form:"reverse"`
}

// InventorySummaryRow is the derived stock position of one active product.
type InventorySummaryRow struct {
	ProductID        int64           `json:"product_id"`
	ProductCode      string          `json:"product_code"`
	ProductName      string          `json:"product_name"`
	Category         *string         `json:"category"`
	Unit             string          `json:"unit"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalValue       decimal.Decimal `json:"total_value"`
	LastMovementDate *time.Time      `json:"last_movement_date"`
	IsLowStock       bool            `json:"is_low_stock"`
}

type DashboardStats struct {
	TotalProducts      int64           `json:"total_products"`
	TodayTransactions  int64           `json:"today_transactions"`
	RecentTransactions int64           `json:"recent_transactions"`
	TodayMovements     int64           `json:"today_movements"`
	TotalStockValue    decimal.Decimal `json:"total_stock_value"`
	LowStockProducts   int             `json:"low_stock_products"`
}
