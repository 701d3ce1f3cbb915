package service

import (
	"context"
	"sort"
	"strings"

	"github.com/Pahari47/parkson-assignment/internal/dto"
	"github.com/Pahari47/parkson-assignment/internal/ledger"
	"github.com/Pahari47/parkson-assignment/internal/model"
	"github.com/Pahari47/parkson-assignment/internal/repository"

	"github.com/shopspring/decimal"
)

// Summary sort keys.
const (
	SortByProductName  = "product_name"
	SortByCurrentStock = "current_stock"
	SortByTotalValue   = "total_value"
)

// InventoryService derives stock positions from the ledger on every call.
// Nothing here is cached or persisted.
type InventoryService interface {
	Summary(ctx context.Context, filter dto.InventorySummaryFilter) ([]dto.InventorySummaryRow, error)
	Dashboard(ctx context.Context) (*dto.DashboardStats, error)
}

type inventoryService struct {
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	details      repository.StockDetailRepository
	settings     LedgerSettings
}

func NewInventoryService(
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	details repository.StockDetailRepository,
	settings LedgerSettings,
) InventoryService {
	return &inventoryService{products: products, transactions: transactions, details: details, settings: settings}
}

// positions builds one summary row per active product.
func (s *inventoryService) positions(ctx context.Context) ([]dto.InventorySummaryRow, error) {
	products, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	levels, err := s.details.StockLevels(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.InventorySummaryRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, s.row(p, levels[p.ID]))
	}
	return rows, nil
}

func (s *inventoryService) row(p model.Product, lvl repository.StockLevel) dto.InventorySummaryRow {
	stock := ledger.CurrentStock(lvl.Stock)
	return dto.InventorySummaryRow{
		ProductID:        p.ID,
		ProductCode:      p.Code,
		ProductName:      p.Name,
		Category:         p.Category,
		Unit:             p.Unit,
		CurrentStock:     stock,
		UnitPrice:        p.UnitPrice,
		TotalValue:       ledger.TotalValue(stock, p.UnitPrice),
		LastMovementDate: lvl.LastMovementDate,
		IsLowStock:       ledger.IsLowStock(stock, ledger.Threshold(p.LowStockThreshold, s.settings.Threshold)),
	}
}

func (s *inventoryService) Summary(ctx context.Context, filter dto.InventorySummaryFilter) ([]dto.InventorySummaryRow, error) {
	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = SortByProductName
	}
	if sortBy != SortByProductName && sortBy != SortByCurrentStock && sortBy != SortByTotalValue {
		return nil, invalid("sort_by", "sort_by must be one of: product_name, current_stock, total_value")
	}

	rows, err := s.positions(ctx)
	if err != nil {
		return nil, err
	}

	category := strings.ToLower(strings.TrimSpace(filter.Category))
	out := rows[:0]
	for _, r := range rows {
		if category != "" && (r.Category == nil || !strings.Contains(strings.ToLower(*r.Category), category)) {
			continue
		}
		if filter.LowStockOnly && !r.IsLowStock {
			continue
		}
		out = append(out, r)
	}

	less := func(a, b dto.InventorySummaryRow) bool {
		switch sortBy {
		case SortByCurrentStock:
			return a.CurrentStock.LessThan(b.CurrentStock)
		case SortByTotalValue:
			return a.TotalValue.LessThan(b.TotalValue)
		default:
			return a.ProductName < b.ProductName
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if filter.Reverse {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

func (s *inventoryService) Dashboard(ctx context.Context) (*dto.DashboardStats, error) {
	now := s.settings.now()
	todayStart, tomorrowStart := dayBounds(now, s.settings.location())

	stats := &dto.DashboardStats{TotalStockValue: decimal.Zero}

	rows, err := s.positions(ctx)
	if err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = s.products.CountActive(ctx); err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.TotalStockValue = stats.TotalStockValue.Add(r.TotalValue)
		if r.IsLowStock {
			stats.LowStockProducts++
		}
	}

	if stats.TodayTransactions, err = s.transactions.CountDatedBetween(ctx, todayStart, tomorrowStart); err != nil {
		return nil, err
	}
	if stats.RecentTransactions, err = s.transactions.CountDatedSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if stats.TodayMovements, err = s.details.CountDatedBetween(ctx, todayStart, tomorrowStart); err != nil {
		return nil, err
	}
	return stats, nil
}
