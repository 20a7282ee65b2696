package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockroom/internal/dto"
	"stockroom/internal/respond"
)

type ReportService interface {
	LowStock(ctx context.Context) ([]dto.LowStockItemDTO, error)
	SalesSummary(ctx context.Context, start, end string) ([]dto.DailySalesDTO, error)
	InventoryStats(ctx context.Context) (*dto.InventoryStatsDTO, error)
	Reconciliation(ctx context.Context) ([]dto.ReconciliationDTO, error)
}

type ReportController struct {
	service ReportService
	logger  *zap.Logger
}

func NewReportController(service ReportService, logger *zap.Logger) *ReportController {
	return &ReportController{
		service: service,
		logger:  logger,
	}
}

func (c *ReportController) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Get("/low-stock", c.LowStock)
		r.Get("/sales-summary", c.SalesSummary)
		r.Get("/inventory-stats", c.InventoryStats)
		r.Get("/stock-reconciliation", c.Reconciliation)
	})
}

func (c *ReportController) LowStock(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	items, err := c.service.LowStock(r.Context())
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, items)
}

func (c *ReportController) SalesSummary(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	q := r.URL.Query()
	days, err := c.service.SalesSummary(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, days)
}

func (c *ReportController) InventoryStats(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	stats, err := c.service.InventoryStats(r.Context())
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, stats)
}

func (c *ReportController) Reconciliation(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	rows, err := c.service.Reconciliation(r.Context())
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, rows)
}
