package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Pahari47/parkson-assignment/internal/dto"
	"github.com/Pahari47/parkson-assignment/internal/ledger"
	"github.com/Pahari47/parkson-assignment/internal/model"
	"github.com/Pahari47/parkson-assignment/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionService records stock movements. Every write that touches line
// items runs inside a single database transaction.
type TransactionService interface {
	Create(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.TransactionResponse, error)
	List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTransactionRequest) (*dto.TransactionResponse, error)
	Delete(ctx context.Context, id int64) error
	Details(ctx context.Context, id int64) ([]dto.StockDetailResponse, error)

	ListDetails(ctx context.Context, filter dto.StockDetailFilter) (*dto.StockDetailListResponse, error)
	GetDetail(ctx context.Context, id int64) (*dto.StockDetailResponse, error)
	AppendDetail(ctx context.Context, req dto.CreateStockDetailRequest) (*dto.StockDetailResponse, error)
	UpdateDetail(ctx context.Context, id int64, req dto.UpdateStockDetailRequest) (*dto.StockDetailResponse, error)
}

type transactionService struct {
	repo     repository.TransactionRepository
	details  repository.StockDetailRepository
	products repository.ProductRepository
	settings LedgerSettings
}

func NewTransactionService(
	repo repository.TransactionRepository,
	details repository.StockDetailRepository,
	products repository.ProductRepository,
	settings LedgerSettings,
) TransactionService {
	return &transactionService{repo: repo, details: details, products: products, settings: settings}
}

// runTx executes fn inside a GORM transaction.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

func mapDetail(d model.StockDetail) dto.StockDetailResponse {
	resp := dto.StockDetailResponse{
		ID:            d.ID,
		TransactionID: d.TransactionID,
		ProductID:     d.ProductID,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		TotalPrice:    d.TotalPrice,
		BatchNumber:   d.BatchNumber,
		ExpiryDate:    formatExpiry(d.ExpiryDate),
		Notes:         d.Notes,
		MovementType:  d.MovementType(),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Product != nil {
		resp.ProductCode = d.Product.Code
		resp.ProductName = d.Product.Name
	}
	return resp
}

func mapTransaction(t model.StockTransaction) dto.TransactionResponse {
	details := make([]dto.StockDetailResponse, 0, len(t.Details))
	for _, d := range t.Details {
		details = append(details, mapDetail(d))
	}
	return dto.TransactionResponse{
		ID:               t.ID,
		Code:             t.Code,
		Type:             t.Type,
		TypeDisplay:      ledger.TypeDisplay(t.Type),
		Date:             t.Date,
		ReferenceNumber:  t.ReferenceNumber,
		SupplierCustomer: t.SupplierCustomer,
		Notes:            t.Notes,
		TotalAmount:      t.TotalAmount,
		CreatedBy:        t.CreatedBy,
		Details:          details,
		DetailsCount:     len(t.Details),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// lineFields validates the caller values of one line item.
func lineFields(prefix string, qty, unitPrice decimal.Decimal, total *decimal.Decimal) *ValidationError {
	fields := map[string]string{}
	switch {
	case !qty.IsPositive():
		fields[prefix+"quantity"] = "Quantity must be greater than zero."
	case !twoPlaces(qty):
		fields[prefix+"quantity"] = "Quantity allows at most 2 decimal places."
	}
	switch {
	case unitPrice.IsNegative():
		fields[prefix+"unit_price"] = "Unit price cannot be negative."
	case !twoPlaces(unitPrice):
		fields[prefix+"unit_price"] = "Unit price allows at most 2 decimal places."
	}
	if total != nil {
		switch {
		case total.IsNegative():
			fields[prefix+"total_price"] = "Total price cannot be negative."
		case !twoPlaces(*total):
			fields[prefix+"total_price"] = "Total price allows at most 2 decimal places."
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// buildDetail applies the sign and total rules to a validated line.
func buildDetail(txType string, in dto.StockDetailInput, expiry *time.Time) model.StockDetail {
	return model.StockDetail{
		ProductID:   in.ProductID,
		Quantity:    ledger.StoredQuantity(txType, in.Quantity),
		UnitPrice:   in.UnitPrice,
		TotalPrice:  ledger.LineTotal(in.Quantity, in.UnitPrice, in.TotalPrice),
		BatchNumber: in.BatchNumber,
		ExpiryDate:  expiry,
		Notes:       in.Notes,
	}
}

func (s *transactionService) Create(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	// 1. Validate everything before opening the write
	if !ledger.ValidType(req.Type) {
		return nil, invalid("transaction_type", "Transaction type must be one of: IN, OUT, ADJUST")
	}
	if len(req.Details) == 0 {
		return nil, invalid("details", "At least one product detail is required.")
	}
	if req.TotalAmount != nil && req.TotalAmount.IsNegative() {
		return nil, invalid("total_amount", "Total amount cannot be negative.")
	}
	if req.TotalAmount != nil && !twoPlaces(*req.TotalAmount) {
		return nil, invalid("total_amount", "Total amount allows at most 2 decimal places.")
	}
	expiries := make([]*time.Time, len(req.Details))
	for i, in := range req.Details {
		prefix := fmt.Sprintf("details[%d].", i)
		if verr := lineFields(prefix, in.Quantity, in.UnitPrice, in.TotalPrice); verr != nil {
			return nil, verr
		}
		exp, err := parseExpiry(prefix+"expiry_date", in.ExpiryDate)
		if err != nil {
			return nil, err
		}
		expiries[i] = exp
	}

	now := s.settings.now()
	code := ""
	if req.Code != nil {
		code = strings.TrimSpace(*req.Code)
	}
	auto := code == ""
	stamp := now.In(s.settings.location())
	if auto {
		code = ledger.GenerateCode(req.Type, stamp)
	}

	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}

	// 2. Write header + lines; generated codes move one second forward on collision
	var t *model.StockTransaction
	for attempt := 0; ; attempt++ {
		var err error
		t, err = s.insert(ctx, req, code, date, expiries)
		if err == nil {
			break
		}
		if !auto || !errors.Is(err, ErrConflict) || attempt+1 >= maxCodeAttempts {
			return nil, err
		}
		stamp = stamp.Add(time.Second)
		code = ledger.GenerateCode(req.Type, stamp)
	}

	log.Info().
		Int64("transaction_id", t.ID).
		Str("transaction_code", t.Code).
		Str("transaction_type", t.Type).
		Int("lines", len(t.Details)).
		Msg("stock transaction recorded")

	return s.GetByID(ctx, t.ID)
}

// maxCodeAttempts bounds how far a generated code may drift from the
// creation time when many transactions of one type land in the same second.
const maxCodeAttempts = 60

// insert writes one transaction with the given code. A taken code is reported
// as a conflict whether the pre-check or the unique index catches it.
func (s *transactionService) insert(
	ctx context.Context,
	req dto.CreateTransactionRequest,
	code string,
	date time.Time,
	expiries []*time.Time,
) (*model.StockTransaction, error) {
	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, conflict("transaction code %q already exists", code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	t := model.StockTransaction{
		Code:             code,
		Type:             req.Type,
		Date:             date,
		ReferenceNumber:  req.ReferenceNumber,
		SupplierCustomer: req.SupplierCustomer,
		Notes:            req.Notes,
		CreatedBy:        req.CreatedBy,
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sum := decimal.Zero
		for i, in := range req.Details {
			if _, err := s.products.FindByIDTx(tx, in.ProductID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("product %d not found", in.ProductID)
				}
				return err
			}
			d := buildDetail(req.Type, in, expiries[i])
			sum = sum.Add(d.TotalPrice)
			t.Details = append(t.Details, d)
		}
		t.TotalAmount = sum
		if req.TotalAmount != nil {
			t.TotalAmount = *req.TotalAmount
		}
		return s.repo.Create(ctx, tx, &t)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("transaction code %q already exists", code)
		}
		return nil, translate(err, "transaction")
	}
	return &t, nil
}

func (s *transactionService) find(ctx context.Context, id int64) (*model.StockTransaction, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("transaction %d not found", id)
		}
		return nil, err
	}
	return t, nil
}

func (s *transactionService) GetByID(ctx context.Context, id int64) (*dto.TransactionResponse, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapTransaction(*t)
	return &resp, nil
}

func (s *transactionService) List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	page, limit := normalizePage(filter.Page, filter.Limit, 20)
	if filter.Type != "" && !ledger.ValidType(filter.Type) {
		return nil, invalid("transaction_type", "Transaction type must be one of: IN, OUT, ADJUST")
	}
	loc := s.settings.location()
	from, err := parseBound("start_date", filter.StartDate, loc, false)
	if err != nil {
		return nil, err
	}
	to, err := parseBound("end_date", filter.EndDate, loc, true)
	if err != nil {
		return nil, err
	}

	txs, total, err := s.repo.List(ctx, repository.TransactionQuery{
		Type:   filter.Type,
		From:   from,
		To:     to,
		Search: strings.TrimSpace(filter.Search),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	data := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		data = append(data, mapTransaction(t))
	}
	return &dto.TransactionListResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *transactionService) Update(ctx context.Context, id int64, req dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			return nil, invalid("transaction_code", "Transaction code cannot be empty.")
		}
		if code != t.Code {
			existing, err := s.repo.FindByCode(ctx, code)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			if err == nil && existing.ID != id {
				return nil, conflict("transaction code %q already exists", code)
			}
			t.Code = code
		}
	}
	if req.TotalAmount != nil {
		if req.TotalAmount.IsNegative() {
			return nil, invalid("total_amount", "Total amount cannot be negative.")
		}
		t.TotalAmount = *req.TotalAmount
	}
	if req.Date != nil {
		t.Date = req.Date.UTC()
	}
	if req.ReferenceNumber != nil {
		t.ReferenceNumber = req.ReferenceNumber
	}
	if req.SupplierCustomer != nil {
		t.SupplierCustomer = req.SupplierCustomer
	}
	if req.Notes != nil {
		t.Notes = req.Notes
	}

	if err := s.repo.UpdateHeader(ctx, t); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("transaction code %q already exists", t.Code)
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *transactionService) Delete(ctx context.Context, id int64) error {
	t, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if n := len(t.Details); n > 0 {
		if !s.settings.cascade() {
			return conflict("transaction %s still has %d line items", t.Code, n)
		}
		log.Warn().
			Int64("transaction_id", id).
			Str("transaction_code", t.Code).
			Int("stock_details_deleted", n).
			Msg("transaction delete cascades into ledger")
	}
	return s.repo.Delete(ctx, id)
}

func (s *transactionService) Details(ctx context.Context, id int64) ([]dto.StockDetailResponse, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	details, err := s.details.ListByTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StockDetailResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, mapDetail(d))
	}
	return resp, nil
}

// ── Line items ──────────────────────────────────────────────────────────────

func (s *transactionService) ListDetails(ctx context.Context, filter dto.StockDetailFilter) (*dto.StockDetailListResponse, error) {
	page, limit := normalizePage(filter.Page, filter.Limit, 50)
	mt := strings.ToUpper(filter.MovementType)
	if mt != "" && mt != ledger.MovementIn && mt != ledger.MovementOut {
		return nil, invalid("movement_type", "Movement type must be IN or OUT.")
	}

	details, total, err := s.details.List(ctx, repository.StockDetailQuery{
		ProductID:     filter.ProductID,
		TransactionID: filter.TransactionID,
		MovementType:  mt,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockDetailResponse, 0, len(details))
	for _, d := range details {
		data = append(data, mapDetail(d))
	}
	return &dto.StockDetailListResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *transactionService) GetDetail(ctx context.Context, id int64) (*dto.StockDetailResponse, error) {
	d, err := s.details.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("stock detail %d not found", id)
		}
		return nil, err
	}
	resp := mapDetail(*d)
	return &resp, nil
}

func (s *transactionService) AppendDetail(ctx context.Context, req dto.CreateStockDetailRequest) (*dto.StockDetailResponse, error) {
	if verr := lineFields("", req.Quantity, req.UnitPrice, req.TotalPrice); verr != nil {
		return nil, verr
	}
	exp, err := parseExpiry("expiry_date", req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	var d model.StockDetail
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var parent model.StockTransaction
		if err := tx.Select("id", "transaction_type").First(&parent, req.TransactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("transaction %d not found", req.TransactionID)
			}
			return err
		}
		if _, err := s.products.FindByIDTx(tx, req.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("product %d not found", req.ProductID)
			}
			return err
		}
		d = buildDetail(parent.Type, req.StockDetailInput, exp)
		d.TransactionID = parent.ID
		return s.details.Create(ctx, tx, &d)
	})
	if err != nil {
		return nil, translate(err, "stock detail")
	}
	return s.GetDetail(ctx, d.ID)
}

func (s *transactionService) UpdateDetail(ctx context.Context, id int64, req dto.UpdateStockDetailRequest) (*dto.StockDetailResponse, error) {
	d, err := s.details.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("stock detail %d not found", id)
		}
		return nil, err
	}

	// Work on caller (unsigned) values; the sign is re-applied below.
	qty := d.Quantity.Abs()
	unitPrice := d.UnitPrice
	repriced := false
	if req.Quantity != nil {
		qty = *req.Quantity
		repriced = true
	}
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
		repriced = true
	}
	if verr := lineFields("", qty, unitPrice, req.TotalPrice); verr != nil {
		return nil, verr
	}
	if req.ExpiryDate != nil {
		exp, err := parseExpiry("expiry_date", req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		d.ExpiryDate = exp
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var parent model.StockTransaction
		if err := tx.Select("id", "transaction_type").First(&parent, d.TransactionID).Error; err != nil {
			return err
		}
		if req.ProductID != nil && *req.ProductID != d.ProductID {
			if _, err := s.products.FindByIDTx(tx, *req.ProductID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("product %d not found", *req.ProductID)
				}
				return err
			}
			d.ProductID = *req.ProductID
			d.Product = nil
		}

		d.Quantity = ledger.StoredQuantity(parent.Type, qty)
		d.UnitPrice = unitPrice
		switch {
		case req.TotalPrice != nil:
			d.TotalPrice = ledger.LineTotal(qty, unitPrice, req.TotalPrice)
		case repriced:
			d.TotalPrice = ledger.LineTotal(qty, unitPrice, nil)
		}
		if req.BatchNumber != nil {
			d.BatchNumber = req.BatchNumber
		}
		if req.Notes != nil {
			d.Notes = req.Notes
		}
		return s.details.Update(ctx, tx, d)
	})
	if err != nil {
		return nil, translate(err, "stock detail")
	}
	return s.GetDetail(ctx, id)
}
