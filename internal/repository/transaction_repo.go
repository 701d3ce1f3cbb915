package repository

import (
	"context"
	"time"

	"github.com/Pahari47/parkson-assignment/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionQuery is the resolved form of a transaction list request.
// From/To are inclusive bounds on transaction_date.
type TransactionQuery struct {
	Type   string
	From   *time.Time
	To     *time.Time
	Search string
	Page   int
	Limit  int
}

type TransactionRepository interface {
	// Create inserts the header and its Details in the given tx.
	Create(ctx context.Context, tx *gorm.DB, t *model.StockTransaction) error
	FindByID(ctx context.Context, id int64) (*model.StockTransaction, error)
	FindByIDTx(tx *gorm.DB, id int64) (*model.StockTransaction, error)
	FindByCode(ctx context.Context, code string) (*model.StockTransaction, error)
	List(ctx context.Context, q TransactionQuery) ([]model.StockTransaction, int64, error)
	UpdateHeader(ctx context.Context, t *model.StockTransaction) error
	Delete(ctx context.Context, id int64) error
	// CountDatedBetween counts transactions dated in [from, to).
	CountDatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountDatedSince(ctx context.Context, from time.Time) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository { return &transactionRepo{db: db} }

func (r *transactionRepo) DB() *gorm.DB { return r.db }

func (r *transactionRepo) Create(ctx context.Context, tx *gorm.DB, t *model.StockTransaction) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *transactionRepo) FindByID(ctx context.Context, id int64) (*model.StockTransaction, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *transactionRepo) FindByIDTx(tx *gorm.DB, id int64) (*model.StockTransaction, error) {
	var t model.StockTransaction
	err := tx.
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("stock_details.id DESC") }).
		Preload("Details.Product").
		First(&t, id).Error
	return &t, err
}

func (r *transactionRepo) FindByCode(ctx context.Context, code string) (*model.StockTransaction, error) {
	var t model.StockTransaction
	err := r.db.WithContext(ctx).Where("transaction_code = ?", code).First(&t).Error
	return &t, err
}

func (r *transactionRepo) List(ctx context.Context, q TransactionQuery) ([]model.StockTransaction, int64, error) {
	var txs []model.StockTransaction
	var total int64

	db := r.db.WithContext(ctx).Model(&model.StockTransaction{})
	if q.Type != "" {
		db = db.Where("transaction_type = ?", q.Type)
	}
	if q.From != nil {
		db = db.Where("transaction_date >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("transaction_date <= ?", *q.To)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("LOWER(reference_number) LIKE LOWER(?) OR LOWER(supplier_customer) LIKE LOWER(?)", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	err := db.
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("stock_details.id DESC") }).
		Preload("Details.Product").
		Order("transaction_date DESC").Order("id DESC").
		Offset(offset).Limit(q.Limit).
		Find(&txs).Error
	return txs, total, err
}

func (r *transactionRepo) UpdateHeader(ctx context.Context, t *model.StockTransaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error
}

func (r *transactionRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.StockTransaction{}, id).Error
}

func (r *transactionRepo) CountDatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.StockTransaction{}).
		Where("transaction_date >= ? AND transaction_date < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *transactionRepo) CountDatedSince(ctx context.Context, from time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.StockTransaction{}).
		Where("transaction_date >= ?", from).
		Count(&n).Error
	return n, err
}
