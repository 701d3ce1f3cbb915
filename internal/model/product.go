package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is catalog master data. It never stores its own stock level:
// stock is derived from the ledger lines that reference it.
type Product struct {
	ID          int64           `gorm:"primaryKey"`
	Code        string          `gorm:"column:product_code;type:varchar(50);uniqueIndex;not null"`
	Name        string          `gorm:"column:product_name;type:varchar(200);index;not null"`
	Description *string
	Category    *string         `gorm:"type:varchar(100);index"`
	Unit        string          `gorm:"type:varchar(20);not null;default:'PCS'"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	IsActive    bool            `gorm:"not null"`
	// LowStockThreshold overrides the deployment threshold; nil = use the default.
	LowStockThreshold *decimal.Decimal `gorm:"type:decimal(10,2)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Product) TableName() string { return "products" }
