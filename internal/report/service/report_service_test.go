package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "stockroom/internal/errors"
	"stockroom/internal/report/repository"
)

type mockReportRepository struct {
	LowStockFunc       func(ctx context.Context) ([]repository.LowStockRow, error)
	SalesSummaryFunc   func(ctx context.Context, from, to time.Time) ([]repository.DailySalesRow, error)
	InventoryStatsFunc func(ctx context.Context) (*repository.InventoryStatsRow, error)
	ReconciliationFunc func(ctx context.Context) ([]repository.ReconciliationRow, error)
}

func (m *mockReportRepository) LowStock(ctx context.Context) ([]repository.LowStockRow, error) {
	return m.LowStockFunc(ctx)
}

func (m *mockReportRepository) SalesSummary(ctx context.Context, from, to time.Time) ([]repository.DailySalesRow, error) {
	return m.SalesSummaryFunc(ctx, from, to)
}

func (m *mockReportRepository) InventoryStats(ctx context.Context) (*repository.InventoryStatsRow, error) {
	return m.InventoryStatsFunc(ctx)
}

func (m *mockReportRepository) Reconciliation(ctx context.Context) ([]repository.ReconciliationRow, error) {
	return m.ReconciliationFunc(ctx)
}

func TestSalesSummary_EndDateIsInclusive(t *testing.T) {
	var gotFrom, gotTo time.Time
	repo := &mockReportRepository{
		SalesSummaryFunc: func(ctx context.Context, from, to time.Time) ([]repository.DailySalesRow, error) {
			gotFrom, gotTo = from, to
			return []repository.DailySalesRow{
				{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), TransactionCount: 3, TotalSales: decimal.NewFromInt(45)},
			}, nil
		},
	}

	days, err := NewReportService(repo, zap.NewNop()).SalesSummary(context.Background(), "2024-03-01", "2024-03-02")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), gotFrom)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), gotTo)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-03-02", days[0].Date)
	assert.Equal(t, 3, days[0].TransactionCount)
}

func TestSalesSummary_InvalidRange(t *testing.T) {
	repo := &mockReportRepository{}
	svc := NewReportService(repo, zap.NewNop())

	tests := []struct {
		name       string
		start, end string
		fields     []string
	}{
		{"missing dates", "", "", []string{"start_date", "end_date"}},
		{"bad end", "2024-03-01", "03/02/2024", []string{"end_date"}},
		{"start after end", "2024-03-05", "2024-03-01", []string{"start_date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SalesSummary(context.Background(), tt.start, tt.end)
			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)

			var fields []string
			for _, d := range ve.Details {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestInventoryStats_AverageValue(t *testing.T) {
	repo := &mockReportRepository{
		InventoryStatsFunc: func(ctx context.Context) (*repository.InventoryStatsRow, error) {
			return &repository.InventoryStatsRow{TotalProducts: 3, TotalStockValue: decimal.NewFromInt(100)}, nil
		},
	}

	stats, err := NewReportService(repo, zap.NewNop()).InventoryStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "33.33", stats.AvgProductValue.StringFixed(2))
}

func TestInventoryStats_NoProducts(t *testing.T) {
	repo := &mockReportRepository{
		InventoryStatsFunc: func(ctx context.Context) (*repository.InventoryStatsRow, error) {
			return &repository.InventoryStatsRow{}, nil
		},
	}

	stats, err := NewReportService(repo, zap.NewNop()).InventoryStats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.AvgProductValue.IsZero())
}

func TestLowStock_MapsNullableColumns(t *testing.T) {
	repo := &mockReportRepository{
		LowStockFunc: func(ctx context.Context) ([]repository.LowStockRow, error) {
			return []repository.LowStockRow{
				{ID: 1, Name: "Tea", CategoryName: sql.NullString{String: "Drinks", Valid: true}},
				{ID: 2, Name: "Rice"},
			}, nil
		},
	}

	items, err := NewReportService(repo, zap.NewNop()).LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].CategoryName)
	assert.Equal(t, "Drinks", *items[0].CategoryName)
	assert.Nil(t, items[1].CategoryName)
	assert.Nil(t, items[1].SKU)
}
