package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/report/repository"
)

type ReportRepository interface {
	LowStock(ctx context.Context) ([]repository.LowStockRow, error)
	SalesSummary(ctx context.Context, from, to time.Time) ([]repository.DailySalesRow, error)
	InventoryStats(ctx context.Context) (*repository.InventoryStatsRow, error)
	Reconciliation(ctx context.Context) ([]repository.ReconciliationRow, error)
}

type ReportService struct {
	repo   ReportRepository
	logger *zap.Logger
}

func NewReportService(repo ReportRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *ReportService) LowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	rows, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LowStockItemDTO, len(rows))
	for i, row := range rows {
		out[i] = dto.LowStockItemDTO{
			ID:            row.ID,
			Name:          row.Name,
			StockQuantity: row.StockQuantity,
			MinStockLevel: row.MinStockLevel,
		}
		if row.SKU.Valid {
			out[i].SKU = &row.SKU.String
		}
		if row.CategoryName.Valid {
			out[i].CategoryName = &row.CategoryName.String
		}
	}
	return out, nil
}

// SalesSummary reports sales per day for the inclusive range [start, end].
func (s *ReportService) SalesSummary(ctx context.Context, start, end string) ([]dto.DailySalesDTO, error) {
	from, to, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.SalesSummary(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	out := make([]dto.DailySalesDTO, len(rows))
	for i, row := range rows {
		out[i] = dto.DailySalesDTO{
			Date:             row.Date.Format(dto.DateLayout),
			TransactionCount: row.TransactionCount,
			TotalSales:       row.TotalSales,
		}
	}
	return out, nil
}

func (s *ReportService) InventoryStats(ctx context.Context) (*dto.InventoryStatsDTO, error) {
	row, err := s.repo.InventoryStats(ctx)
	if err != nil {
		return nil, err
	}

	avg := decimal.Zero
	if row.TotalProducts > 0 {
		avg = row.TotalStockValue.Div(decimal.NewFromInt(int64(row.TotalProducts))).Round(2)
	}

	return &dto.InventoryStatsDTO{
		TotalProducts:   row.TotalProducts,
		InStock:         row.InStock,
		OutOfStock:      row.OutOfStock,
		LowStock:        row.LowStock,
		TotalStockValue: row.TotalStockValue,
		AvgProductValue: avg,
		CategoriesCount: row.CategoriesCount,
		SuppliersCount:  row.SuppliersCount,
	}, nil
}

func (s *ReportService) Reconciliation(ctx context.Context) ([]dto.ReconciliationDTO, error) {
	rows, err := s.repo.Reconciliation(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReconciliationDTO, len(rows))
	for i, row := range rows {
		out[i] = dto.ReconciliationDTO(row)
	}
	if len(out) > 0 {
		s.logger.Warn("stock differs from ledger balance", zap.Int("products", len(out)))
	}
	return out, nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	var details []apperrors.ValidationDetail

	from, err := time.Parse(dto.DateLayout, strings.TrimSpace(start))
	if err != nil {
		details = append(details, apperrors.ValidationDetail{Field: "start_date", Message: "start_date must be a YYYY-MM-DD date"})
	}
	to, err := time.Parse(dto.DateLayout, strings.TrimSpace(end))
	if err != nil {
		details = append(details, apperrors.ValidationDetail{Field: "end_date", Message: "end_date must be a YYYY-MM-DD date"})
	}
	if len(details) == 0 && from.After(to) {
		details = append(details, apperrors.ValidationDetail{Field: "start_date", Message: "start_date must not be after end_date"})
	}

	if len(details) > 0 {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("invalid date range", details...)
	}
	return from, to, nil
}
