package repository

import (
	"context"
	"time"

	"github.com/Pahari47/parkson-assignment/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockLevel is the ledger position of one product. Products without any
// line items have no StockLevel; callers treat them as zero stock.
type StockLevel struct {
	ProductID        int64
	Stock            decimal.Decimal
	LastMovementDate *time.Time
}

// Movement is a line item joined with its transaction header.
type Movement struct {
	TransactionID   int64
	TransactionCode string
	TransactionType string
	TransactionDate time.Time
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal
	ReferenceNumber *string
	Notes           *string
}

// StockDetailQuery filters line items. MovementType matches the sign of the
// stored quantity, not the parent transaction type.
type StockDetailQuery struct {
	ProductID     int64
	TransactionID int64
	MovementType  string
	Page          int
	Limit         int
}

type StockDetailRepository interface {
	// Create inserts a line item; pass the running tx for ledger writes.
	Create(ctx context.Context, tx *gorm.DB, d *model.StockDetail) error
	FindByID(ctx context.Context, id int64) (*model.StockDetail, error)
	List(ctx context.Context, q StockDetailQuery) ([]model.StockDetail, int64, error)
	ListByTransaction(ctx context.Context, transactionID int64) ([]model.StockDetail, error)
	Update(ctx context.Context, tx *gorm.DB, d *model.StockDetail) error
	CountByProduct(ctx context.Context, productID int64) (int64, error)
	CountByTransaction(ctx context.Context, transactionID int64) (int64, error)
	// CountDatedBetween counts line items whose transaction date is in [from, to).
	CountDatedBetween(ctx context.Context, from, to time.Time) (int64, error)

	// StockLevels aggregates the ledger per product. No ids means every product.
	StockLevels(ctx context.Context, productIDs ...int64) (map[int64]StockLevel, error)
	Movements(ctx context.Context, productID int64, from, to *time.Time) ([]Movement, error)
}

type stockDetailRepo struct{ db *gorm.DB }

func NewStockDetailRepository(db *gorm.DB) StockDetailRepository { return &stockDetailRepo{db: db} }

func (r *stockDetailRepo) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *stockDetailRepo) Create(ctx context.Context, tx *gorm.DB, d *model.StockDetail) error {
	return r.conn(ctx, tx).Omit(clause.Associations).Create(d).Error
}

func (r *stockDetailRepo) FindByID(ctx context.Context, id int64) (*model.StockDetail, error) {
	var d model.StockDetail
	err := r.db.WithContext(ctx).Preload("Product").First(&d, id).Error
	return &d, err
}

func (r *stockDetailRepo) List(ctx context.Context, q StockDetailQuery) ([]model.StockDetail, int64, error) {
	var details []model.StockDetail
	var total int64

	db := r.db.WithContext(ctx).Model(&model.StockDetail{})
	if q.ProductID != 0 {
		db = db.Where("product_id = ?", q.ProductID)
	}
	if q.TransactionID != 0 {
		db = db.Where("transaction_id = ?", q.TransactionID)
	}
	switch q.MovementType {
	case "IN":
		db = db.Where("quantity > 0")
	case "OUT":
		db = db.Where("quantity <= 0")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	err := db.Preload("Product").Order("id DESC").Offset(offset).Limit(q.Limit).Find(&details).Error
	return details, total, err
}

func (r *stockDetailRepo) ListByTransaction(ctx context.Context, transactionID int64) ([]model.StockDetail, error) {
	var details []model.StockDetail
	err := r.db.WithContext(ctx).Preload("Product").
		Where("transaction_id = ?", transactionID).
		Order("id DESC").
		Find(&details).Error
	return details, err
}

func (r *stockDetailRepo) Update(ctx context.Context, tx *gorm.DB, d *model.StockDetail) error {
	return r.conn(ctx, tx).Omit(clause.Associations).Save(d).Error
}

func (r *stockDetailRepo) CountByProduct(ctx context.Context, productID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.StockDetail{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}

func (r *stockDetailRepo) CountByTransaction(ctx context.Context, transactionID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.StockDetail{}).Where("transaction_id = ?", transactionID).Count(&n).Error
	return n, err
}

func (r *stockDetailRepo) CountDatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.StockDetail{}).
		Joins("JOIN stock_transactions t ON t.id = stock_details.transaction_id").
		Where("t.transaction_date >= ? AND t.transaction_date < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *stockDetailRepo) StockLevels(ctx context.Context, productIDs ...int64) (map[int64]StockLevel, error) {
	var sums []struct {
		ProductID    int64
		Stock        decimal.Decimal
		LastDetailID int64
	}
	q := r.db.WithContext(ctx).Model(&model.StockDetail{}).
		Select("product_id, SUM(quantity) AS stock, MAX(id) AS last_detail_id").
		Group("product_id")
	if len(productIDs) > 0 {
		q = q.Where("product_id IN ?", productIDs)
	}
	if err := q.Scan(&sums).Error; err != nil {
		return nil, err
	}

	levels := make(map[int64]StockLevel, len(sums))
	if len(sums) == 0 {
		return levels, nil
	}

	lastIDs := make([]int64, 0, len(sums))
	for _, s := range sums {
		// quantities are stored with two decimals; SQLite sums them as REAL
		levels[s.ProductID] = StockLevel{ProductID: s.ProductID, Stock: s.Stock.Round(2)}
		lastIDs = append(lastIDs, s.LastDetailID)
	}

	var lasts []struct {
		ProductID       int64
		TransactionDate time.Time
	}
	err := r.db.WithContext(ctx).Model(&model.StockDetail{}).
		Select("stock_details.product_id, t.transaction_date").
		Joins("JOIN stock_transactions t ON t.id = stock_details.transaction_id").
		Where("stock_details.id IN ?", lastIDs).
		Scan(&lasts).Error
	if err != nil {
		return nil, err
	}
	for _, l := range lasts {
		lvl := levels[l.ProductID]
		date := l.TransactionDate
		lvl.LastMovementDate = &date
		levels[l.ProductID] = lvl
	}
	return levels, nil
}

func (r *stockDetailRepo) Movements(ctx context.Context, productID int64, from, to *time.Time) ([]Movement, error) {
	var rows []Movement
	q := r.db.WithContext(ctx).Model(&model.StockDetail{}).
		Select(`t.id AS transaction_id, t.transaction_code, t.transaction_type, t.transaction_date,
			stock_details.quantity, stock_details.unit_price, stock_details.total_price,
			t.reference_number, stock_details.notes`).
		Joins("JOIN stock_transactions t ON t.id = stock_details.transaction_id").
		Where("stock_details.product_id = ?", productID)
	if from != nil {
		q = q.Where("t.transaction_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("t.transaction_date <= ?", *to)
	}
	err := q.Order("t.transaction_date DESC").Order("stock_details.id DESC").Scan(&rows).Error
	return rows, err
}
