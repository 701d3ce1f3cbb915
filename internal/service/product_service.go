package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Pahari47/parkson-assignment/internal/dto"
	"github.com/Pahari47/parkson-assignment/internal/ledger"
	"github.com/Pahari47/parkson-assignment/internal/model"
	"github.com/Pahari47/parkson-assignment/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService defines the business logic contract for the product catalog.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id int64) error
	Reactivate(ctx context.Context, id int64) (*dto.ProductResponse, error)
	// HardDelete removes the product row, subject to the ledger delete policy.
	HardDelete(ctx context.Context, id int64) error
	SetThreshold(ctx context.Context, id int64, threshold *decimal.Decimal) (*dto.ProductResponse, error)
	StockMovements(ctx context.Context, id int64, filter dto.MovementFilter) ([]dto.StockMovementResponse, error)
}

type productService struct {
	repo     repository.ProductRepository
	details  repository.StockDetailRepository
	settings LedgerSettings
}

func NewProductService(repo repository.ProductRepository, details repository.StockDetailRepository, settings LedgerSettings) ProductService {
	return &productService{repo: repo, details: details, settings: settings}
}

// mapProduct converts a model plus its derived stock to a DTO response.
func mapProduct(p model.Product, stock decimal.Decimal) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                p.ID,
		Code:              p.Code,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		Unit:              p.Unit,
		UnitPrice:         p.UnitPrice,
		IsActive:          p.IsActive,
		LowStockThreshold: p.LowStockThreshold,
		CurrentStock:      stock,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (s *productService) withStock(ctx context.Context, p *model.Product) (*dto.ProductResponse, error) {
	levels, err := s.details.StockLevels(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	resp := mapProduct(*p, ledger.CurrentStock(levels[p.ID].Stock))
	return &resp, nil
}

func (s *productService) find(ctx context.Context, id int64) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product %d not found", id)
		}
		return nil, err
	}
	return p, nil
}

func thresholdFields(threshold *decimal.Decimal) *ValidationError {
	switch {
	case threshold == nil:
		return nil
	case threshold.IsNegative():
		return invalid("low_stock_threshold", "Threshold cannot be negative.")
	case !twoPlaces(*threshold):
		return invalid("low_stock_threshold", "Threshold allows at most 2 decimal places.")
	}
	return nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, invalid("product_code", "Product code is required.")
	}
	if req.UnitPrice.IsNegative() {
		return nil, invalid("unit_price", "Unit price cannot be negative.")
	}
	if !twoPlaces(req.UnitPrice) {
		return nil, invalid("unit_price", "Unit price allows at most 2 decimal places.")
	}
	if verr := thresholdFields(req.LowStockThreshold); verr != nil {
		return nil, verr
	}

	// Check for duplicate code
	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, conflict("product code %q already exists", code)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &model.Product{
		Code:              code,
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		Category:          req.Category,
		Unit:              req.Unit,
		UnitPrice:         req.UnitPrice,
		IsActive:          true,
		LowStockThreshold: req.LowStockThreshold,
	}
	if p.Unit == "" {
		p.Unit = "PCS"
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("product code %q already exists", code)
		}
		return nil, err
	}
	resp := mapProduct(*p, decimal.Zero)
	return &resp, nil
}

func (s *productService) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withStock(ctx, p)
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit, 20)

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	levels := map[int64]repository.StockLevel{}
	if len(ids) > 0 {
		if levels, err = s.details.StockLevels(ctx, ids...); err != nil {
			return nil, err
		}
	}

	data := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		data = append(data, mapProduct(p, ledger.CurrentStock(levels[p.ID].Stock)))
	}
	return &dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *productService) Update(ctx context.Context, id int64, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			return nil, invalid("product_code", "Product code is required.")
		}
		if code != p.Code {
			refs, err := s.details.CountByProduct(ctx, id)
			if err != nil {
				return nil, err
			}
			if refs > 0 {
				return nil, conflict("product code cannot change once stock movements reference product %d", id)
			}
			existing, err := s.repo.FindByCode(ctx, code)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			if err == nil && existing.ID != id {
				return nil, conflict("product code %q already exists", code)
			}
			p.Code = code
		}
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, invalid("unit_price", "Unit price cannot be negative.")
		}
		if !twoPlaces(*req.UnitPrice) {
			return nil, invalid("unit_price", "Unit price allows at most 2 decimal places.")
		}
		p.UnitPrice = *req.UnitPrice
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = req.Category
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("product code %q already exists", p.Code)
		}
		return nil, err
	}
	return s.withStock(ctx, p)
}

func (s *productService) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, false)
}

func (s *productService) Reactivate(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, true); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *productService) HardDelete(ctx context.Context, id int64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	refs, err := s.details.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		if !s.settings.cascade() {
			return conflict("product %d is referenced by %d stock movements; deactivate it instead", id, refs)
		}
		log.Warn().
			Int64("product_id", id).
			Int64("stock_details_deleted", refs).
			Msg("hard delete cascades into ledger")
	}
	return s.repo.Delete(ctx, id)
}

func (s *productService) SetThreshold(ctx context.Context, id int64, threshold *decimal.Decimal) (*dto.ProductResponse, error) {
	if verr := thresholdFields(threshold); verr != nil {
		return nil, verr
	}
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetThreshold(ctx, id, threshold); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *productService) StockMovements(ctx context.Context, id int64, filter dto.MovementFilter) ([]dto.StockMovementResponse, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
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

	rows, err := s.details.Movements(ctx, id, from, to)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.StockMovementResponse, 0, len(rows))
	for _, m := range rows {
		resp = append(resp, dto.StockMovementResponse{
			TransactionID:   m.TransactionID,
			TransactionCode: m.TransactionCode,
			TransactionType: m.TransactionType,
			TransactionDate: m.TransactionDate,
			Quantity:        m.Quantity,
			UnitPrice:       m.UnitPrice,
			TotalPrice:      m.TotalPrice,
			ReferenceNumber: m.ReferenceNumber,
			Notes:           m.Notes,
		})
	}
	return resp, nil
}
