package model

import (
	"time"

	"github.com/Pahari47/parkson-assignment/internal/ledger"

	"github.com/shopspring/decimal"
)

// StockDetail is one product movement inside a transaction.
// Quantity is stored signed: positive = inbound, negative = outbound.
type StockDetail struct {
	ID            int64           `gorm:"primaryKey"`
	TransactionID int64           `gorm:"not null;index"`
	ProductID     int64           `gorm:"not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BatchNumber   *string         `gorm:"type:varchar(100)"`
	ExpiryDate    *time.Time      `gorm:"type:date"`
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Transaction *StockTransaction `gorm:"foreignKey:TransactionID"`
	Product     *Product          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (StockDetail) TableName() string { return "stock_details" }

// MovementType is derived from the stored sign, not from the parent transaction type.
func (d StockDetail) MovementType() string { return ledger.MovementType(d.Quantity) }
