package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Pahari47/parkson-assignment/internal/dto"
	"github.com/Pahari47/parkson-assignment/internal/infra"
	"github.com/Pahari47/parkson-assignment/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func strPtr(s string) *string { return &s }

var codeSeq atomic.Int64

var fixedNow = time.Date(2026, 3, 9, 14, 5, 7, 0, time.UTC)

type ledgerEnv struct {
	db           *gorm.DB
	products     ProductService
	transactions TransactionService
	inventory    InventoryService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.NewDatabase("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newLedgerEnv(t *testing.T, settings LedgerSettings) *ledgerEnv {
	t.Helper()
	db := newTestDB(t)
	if settings.Threshold.IsZero() {
		settings.Threshold = decimal.NewFromInt(10)
	}
	if settings.Now == nil {
		settings.Now = func() time.Time { return fixedNow }
	}

	productRepo := repository.NewProductRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	detailRepo := repository.NewStockDetailRepository(db)

	return &ledgerEnv{
		db:           db,
		products:     NewProductService(productRepo, detailRepo, settings),
		transactions: NewTransactionService(transactionRepo, detailRepo, productRepo, settings),
		inventory:    NewInventoryService(productRepo, transactionRepo, detailRepo, settings),
	}
}

func (e *ledgerEnv) product(t *testing.T, code, name, price string) *dto.ProductResponse {
	t.Helper()
	p, err := e.products.Create(context.Background(), dto.CreateProductRequest{
		Code:      code,
		Name:      name,
		UnitPrice: dec(price),
	})
	require.NoError(t, err)
	return p
}

func (e *ledgerEnv) move(t *testing.T, txType string, productID int64, qty string) *dto.TransactionResponse {
	t.Helper()
	return e.moveAt(t, txType, productID, qty, nil)
}

func (e *ledgerEnv) moveAt(t *testing.T, txType string, productID int64, qty string, at *time.Time) *dto.TransactionResponse {
	t.Helper()
	// explicit codes keep the generated sequence free for the tests that check it
	code := fmt.Sprintf("%s-%d", txType, codeSeq.Add(1))
	resp, err := e.transactions.Create(context.Background(), dto.CreateTransactionRequest{
		Code: &code,
		Type: txType,
		Date: at,
		Details: []dto.StockDetailInput{
			{ProductID: productID, Quantity: dec(qty), UnitPrice: dec("1")},
		},
	})
	require.NoError(t, err)
	return resp
}
