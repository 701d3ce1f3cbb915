package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGenerateCode(t *testing.T) {
	at := time.Date(2026, 3, 9, 14, 5, 7, 0, time.UTC)

	assert.Equal(t, "IN20260309140507", GenerateCode(TypeIn, at))
	assert.Equal(t, "OUT20260309140507", GenerateCode(TypeOut, at))
	assert.Equal(t, "ADJ20260309140507", GenerateCode(TypeAdjust, at))
	assert.Equal(t, "TXN20260309140507", GenerateCode("TRANSFER", at))
}

func TestStoredQuantity(t *testing.T) {
	assert.True(t, d("-5").Equal(StoredQuantity(TypeOut, d("5"))))
	assert.True(t, d("-5").Equal(StoredQuantity(TypeOut, d("-5"))))
	assert.True(t, d("5").Equal(StoredQuantity(TypeIn, d("5"))))
	// ADJUST lines keep the caller sign; validation upstream requires > 0.
	assert.True(t, d("3").Equal(StoredQuantity(TypeAdjust, d("3"))))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "12.5", LineTotal(d("5"), d("2.5"), nil).String())

	supplied := d("40")
	assert.Equal(t, "40", LineTotal(d("5"), d("2.5"), &supplied).String())

	zero := decimal.Zero
	assert.Equal(t, "12.5", LineTotal(d("5"), d("2.5"), &zero).String(), "zero total is recomputed")
}

func TestMovementType(t *testing.T) {
	assert.Equal(t, MovementIn, MovementType(d("0.01")))
	assert.Equal(t, MovementOut, MovementType(d("-5")))
	assert.Equal(t, MovementOut, MovementType(decimal.Zero))
}

func TestCurrentStock(t *testing.T) {
	assert.True(t, CurrentStock().IsZero())
	assert.Equal(t, "15", CurrentStock(d("20"), d("-5")).String())
	assert.Equal(t, "7.25", CurrentStock(d("10"), d("-3.5"), d("0.75")).String())
}

func TestIsLowStock(t *testing.T) {
	threshold := DefaultLowStockThreshold

	assert.True(t, IsLowStock(d("9.99"), threshold))
	assert.False(t, IsLowStock(d("10"), threshold))
	assert.False(t, IsLowStock(d("15"), threshold))
	assert.True(t, IsLowStock(d("-2"), threshold))
}

func TestThreshold(t *testing.T) {
	override := d("3")
	assert.Equal(t, "3", Threshold(&override, DefaultLowStockThreshold).String())
	assert.Equal(t, "10", Threshold(nil, DefaultLowStockThreshold).String())
}

func TestTypeHelpers(t *testing.T) {
	assert.True(t, ValidType("ADJUST"))
	assert.False(t, ValidType("adjust"))
	assert.Equal(t, "Stock Out", TypeDisplay(TypeOut))
	assert.Equal(t, "40", TotalValue(d("4"), d("10")).String())
}
