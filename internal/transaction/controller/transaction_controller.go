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

type TransactionUseCase interface {
	RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.RecordTransactionResponse, error)
	RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest) (*dto.RecordTransactionResponse, error)
	ReturnItem(ctx context.Context, req dto.ReturnItemRequest) (*dto.ReturnItemResponse, error)
	DeleteTransaction(ctx context.Context, id int64) (*dto.SuccessResponse, error)
	GetTransactionDetails(ctx context.Context, id int64) (*dto.TransactionDetailsResponse, error)
	ListTransactions(ctx context.Context, txType string) ([]dto.TransactionSummaryDTO, error)
}

type TransactionController struct {
	useCase TransactionUseCase
	logger  *zap.Logger
}

func NewTransactionController(useCase TransactionUseCase, logger *zap.Logger) *TransactionController {
	return &TransactionController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *TransactionController) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/sales", c.RecordSale)
	r.Post("/api/v1/purchases", c.RecordPurchase)
	r.Get("/api/v1/transactions", c.List)
	r.Get("/api/v1/transactions/{transactionId}", c.Details)
	r.Delete("/api/v1/transactions/{transactionId}", c.Delete)
	r.Post("/api/v1/transactions/{transactionId}/returns", c.ReturnItem)
}

func (c *TransactionController) RecordSale(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RecordSaleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	resp, err := c.useCase.RecordSale(r.Context(), req)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	logger.Info("sale recorded", zap.Int64("transactionId", resp.ID))
	respond.JSON(w, logger, http.StatusCreated, resp)
}

func (c *TransactionController) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RecordPurchaseRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	resp, err := c.useCase.RecordPurchase(r.Context(), req)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	logger.Info("purchase recorded", zap.Int64("transactionId", resp.ID))
	respond.JSON(w, logger, http.StatusCreated, resp)
}

func (c *TransactionController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	resp, err := c.useCase.ListTransactions(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, resp)
}

// Details answers 200 with a null body for an unknown transaction.
func (c *TransactionController) Details(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := respond.PathID(r, "transactionId")
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	resp, err := c.useCase.GetTransactionDetails(r.Context(), id)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, resp)
}

func (c *TransactionController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := respond.PathID(r, "transactionId")
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	resp, err := c.useCase.DeleteTransaction(r.Context(), id)
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, resp)
}

type returnItemBody struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (c *TransactionController) ReturnItem(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := respond.PathID(r, "transactionId")
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	var body returnItemBody
	if err := respond.Decode(r, &body); err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}

	resp, err := c.useCase.ReturnItem(r.Context(), dto.ReturnItemRequest{
		TransactionID: id,
		ProductID:     body.ProductID,
		Quantity:      body.Quantity,
	})
	if err != nil {
		respond.Error(w, logger, traceID, err)
		return
	}
	respond.JSON(w, logger, http.StatusOK, resp)
}
