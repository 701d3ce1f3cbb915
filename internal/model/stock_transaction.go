package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockTransaction is the ledger header for one business event (receipt, issue
// or adjustment). Its lines carry the actual stock movements.
type StockTransaction struct {
	ID               int64           `gorm:"primaryKey"`
	Code             string          `gorm:"column:transaction_code;type:varchar(50);uniqueIndex;not null"`
	Type             string          `gorm:"column:transaction_type;type:varchar(10);not null;index"` // IN | OUT | ADJUST
	Date             time.Time       `gorm:"column:transaction_date;not null;index"`
	ReferenceNumber  *string         `gorm:"type:varchar(100)"`
	SupplierCustomer *string         `gorm:"type:varchar(200)"`
	Notes            *string
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedBy        *string         `gorm:"type:varchar(100)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Details []StockDetail `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
}

func (StockTransaction) TableName() string { return "stock_transactions" }
