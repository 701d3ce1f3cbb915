// Package ledger holds the stock-ledger rules shared by the write and read paths.
// Stock is never stored: it is the sum of the signed quantities of every line
// item that references a product.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types accepted by the ledger.
const (
	TypeIn     = "IN"
	TypeOut    = "OUT"
	TypeAdjust = "ADJUST"
)

// Movement directions derived from the sign of a stored quantity.
const (
	MovementIn  = "IN"
	MovementOut = "OUT"
)

// DefaultLowStockThreshold is used when neither the deployment nor the product sets one.
var DefaultLowStockThreshold = decimal.NewFromInt(10)

var typeDisplay = map[string]string{
	TypeIn:     "Stock In",
	TypeOut:    "Stock Out",
	TypeAdjust: "Stock Adjustment",
}

// ValidType reports whether t is one of IN, OUT or ADJUST.
func ValidType(t string) bool {
	_, ok := typeDisplay[t]
	return ok
}

// TypeDisplay returns the human label for a transaction type.
func TypeDisplay(t string) string {
	return typeDisplay[t]
}

// CodePrefix maps a transaction type to its auto-generated code prefix.
func CodePrefix(t string) string {
	switch t {
	case TypeIn:
		return "IN"
	case TypeOut:
		return "OUT"
	case TypeAdjust:
		return "ADJ"
	default:
		return "TXN"
	}
}

// GenerateCode builds {PREFIX}{yyyyMMddHHmmss} for a transaction created at now.
func GenerateCode(t string, now time.Time) string {
	return fmt.Sprintf("%s%s", CodePrefix(t), now.Format("20060102150405"))
}

// StoredQuantity applies the direction rule to a caller quantity: lines of an
// OUT transaction are always stored negative, everything else as supplied.
func StoredQuantity(txType string, qty decimal.Decimal) decimal.Decimal {
	if txType == TypeOut {
		return qty.Abs().Neg()
	}
	return qty
}

// LineTotal returns the supplied total, or quantity x unit price when the total
// is absent or zero. The product uses the caller quantity before the OUT sign
// flip, so computed totals are never negative.
func LineTotal(qty, unitPrice decimal.Decimal, supplied *decimal.Decimal) decimal.Decimal {
	if supplied != nil && !supplied.IsZero() {
		return *supplied
	}
	return qty.Mul(unitPrice).Round(2)
}

// MovementType is IN for a positive stored quantity and OUT otherwise.
func MovementType(stored decimal.Decimal) string {
	if stored.IsPositive() {
		return MovementIn
	}
	return MovementOut
}

// CurrentStock folds signed quantities into a balance. Zero for no movements.
func CurrentStock(quantities ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, quantities...)
}

// TotalValue values stock at the product's current price, not historical line prices.
func TotalValue(stock, unitPrice decimal.Decimal) decimal.Decimal {
	return stock.Mul(unitPrice)
}

// IsLowStock is true when stock is strictly below the threshold.
func IsLowStock(stock, threshold decimal.Decimal) bool {
	return stock.LessThan(threshold)
}

// Threshold picks the product override when present.
func Threshold(override *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return fallback
}
