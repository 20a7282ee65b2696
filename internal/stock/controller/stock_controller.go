package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/respond"
)

type StockService interface {
	AdjustStockManually(ctx context.Context, req dto.AdjustStockRequest) error
	ListMovements(ctx context.Context, productID int64, limit int) ([]domain.StockMovement, error)
}

type StockController struct {
	service StockService
	logger  *zap.Logger
}

func NewStockController(service StockService, logger *zap.Logger) *StockController {
	return &StockController{
		service: service,
		logger:  logger,
	}
}

func (c *StockController) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/stock/adjustments", c.AdjustStock)
	r.Get("/api/v1/products/{productId}/movements", c.ListMovements)
}

func (c *StockController) AdjustStock(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.AdjustStockRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	if err := c.service.AdjustStockManually(r.Context(), req); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	respond.JSON(w, logger, http.StatusOK, dto.SuccessResponse{Success: true})
}

func (c *StockController) ListMovements(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, err := respond.PathID(r, "productId")
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			respond.Error(w, logger, traceID, apperrors.NewValidationError("invalid limit", apperrors.ValidationDetail{
				Field:   "limit",
				Message: "limit must be an integer",
			}))
			return
		}
	}

	movements, err := c.service.ListMovements(r.Context(), productID, limit)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	out := make([]dto.StockMovementDTO, len(movements))
	for i, m := range movements {
		out[i] = dto.NewStockMovementDTO(m)
	}
	respond.JSON(w, logger, http.StatusOK, out)
}
