package infra

import (
	"testing"

	"github.com/Pahari47/parkson-assignment/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/app?sslmode=disable", migrateURL("postgres://u:p@db:5432/app?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/app", migrateURL("postgresql://u@db/app"))
	assert.Equal(t, "pgx5://already", migrateURL("pgx5://already"))
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := NewDatabase("oracle", "whatever")
	assert.ErrorContains(t, err, "unsupported")
}

func TestNewDatabase_SQLiteSchema(t *testing.T) {
	db, err := NewDatabase("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)

	for _, table := range []string{"products", "stock_transactions", "stock_details", "users"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	p := model.Product{Code: "P-1", Name: "Bolt", Unit: "PCS", UnitPrice: decimal.NewFromInt(2), IsActive: true}
	require.NoError(t, db.Create(&p).Error)

	dup := model.Product{Code: "P-1", Name: "Other", Unit: "PCS", IsActive: true}
	err = db.Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestNewDatabase_SQLiteCascade(t *testing.T) {
	db, err := NewDatabase("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)

	p := model.Product{Code: "P-1", Name: "Bolt", Unit: "PCS", IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	tx := model.StockTransaction{
		Code: "IN1", Type: "IN",
		Details: []model.StockDetail{{ProductID: p.ID, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(1), TotalPrice: decimal.NewFromInt(3)}},
	}
	require.NoError(t, db.Create(&tx).Error)

	require.NoError(t, db.Delete(&model.StockTransaction{}, tx.ID).Error)

	var n int64
	require.NoError(t, db.Model(&model.StockDetail{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestNewDatabase_SQLiteForeignKeysWithoutDSNPragma(t *testing.T) {
	db, err := NewDatabase("sqlite", "file::memory:")
	require.NoError(t, err)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	p := model.Product{Code: "P-1", Name: "Bolt", Unit: "PCS", IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	tx := model.StockTransaction{
		Code: "IN1", Type: "IN",
		Details: []model.StockDetail{{ProductID: p.ID, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(1), TotalPrice: decimal.NewFromInt(3)}},
	}
	require.NoError(t, db.Create(&tx).Error)

	require.NoError(t, db.Delete(&model.StockTransaction{}, tx.ID).Error)

	var n int64
	require.NoError(t, db.Model(&model.StockDetail{}).Count(&n).Error)
	assert.Zero(t, n, "details must cascade with their transaction")

	orphan := model.StockDetail{TransactionID: tx.ID, ProductID: p.ID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1), TotalPrice: decimal.NewFromInt(1)}
	assert.Error(t, db.Create(&orphan).Error, "detail pointing at a deleted transaction must be rejected")
}
