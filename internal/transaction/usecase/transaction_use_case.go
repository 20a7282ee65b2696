package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

type TransactionService interface {
	Record(ctx context.Context, draft dto.TransactionDraft) (*dto.RecordResult, error)
	ReturnItem(ctx context.Context, req dto.ReturnItemRequest) (*dto.ReturnResult, error)
	Delete(ctx context.Context, id int64) error
	Details(ctx context.Context, id int64) (*domain.TransactionDetails, error)
	List(ctx context.Context, txType *domain.TransactionType) ([]domain.TransactionSummary, error)
}

type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
}

type SupplierRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Supplier, error)
}

// TransactionUseCase validates requests and resolves counterparties before
// anything reaches the service.
type TransactionUseCase struct {
	service      TransactionService
	customerRepo CustomerRepository
	supplierRepo SupplierRepository
	logger       *zap.Logger
}

func NewTransactionUseCase(
	service TransactionService,
	customerRepo CustomerRepository,
	supplierRepo SupplierRepository,
	logger *zap.Logger,
) *TransactionUseCase {
	return &TransactionUseCase{
		service:      service,
		customerRepo: customerRepo,
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

func (uc *TransactionUseCase) RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.RecordTransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		if _, err := uc.customerRepo.FindByID(ctx, *req.CustomerID); err != nil {
			return nil, unknownReference(err, "customer_id")
		}
	}

	return uc.record(ctx, dto.TransactionDraft{
		Type:            domain.TransactionTypeSale,
		ReferenceNumber: referenceOrGenerated(req.ReferenceNumber, "INV"),
		CustomerID:      req.CustomerID,
		Notes:           strings.TrimSpace(req.Notes),
		Items:           req.Items,
	})
}

func (uc *TransactionUseCase) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest) (*dto.RecordTransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.SupplierID != nil {
		if _, err := uc.supplierRepo.FindByID(ctx, *req.SupplierID); err != nil {
			return nil, unknownReference(err, "supplier_id")
		}
	}

	return uc.record(ctx, dto.TransactionDraft{
		Type:            domain.TransactionTypePurchase,
		ReferenceNumber: referenceOrGenerated(req.ReferenceNumber, "PO"),
		SupplierID:      req.SupplierID,
		Notes:           strings.TrimSpace(req.Notes),
		Items:           req.Items,
	})
}

func (uc *TransactionUseCase) record(ctx context.Context, draft dto.TransactionDraft) (*dto.RecordTransactionResponse, error) {
	result, err := uc.service.Record(ctx, draft)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TransactionItemDTO, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.TransactionItemDTO{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
	}

	return &dto.RecordTransactionResponse{
		ID:              result.TransactionID,
		Type:            string(draft.Type),
		ReferenceNumber: draft.ReferenceNumber,
		TotalAmount:     result.TotalAmount,
		Items:           items,
	}, nil
}

func (uc *TransactionUseCase) ReturnItem(ctx context.Context, req dto.ReturnItemRequest) (*dto.ReturnItemResponse, error) {
	result, err := uc.service.ReturnItem(ctx, req)
	if err != nil {
		return nil, err
	}
	return &dto.ReturnItemResponse{
		Success:        true,
		NewTotalAmount: result.NewTotalAmount,
		NewQuantity:    result.NewQuantity,
	}, nil
}

func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id int64) (*dto.SuccessResponse, error) {
	if err := uc.service.Delete(ctx, id); err != nil {
		return nil, err
	}
	return &dto.SuccessResponse{Success: true}, nil
}

// GetTransactionDetails returns nil without an error when the transaction
// does not exist.
func (uc *TransactionUseCase) GetTransactionDetails(ctx context.Context, id int64) (*dto.TransactionDetailsResponse, error) {
	details, err := uc.service.Details(ctx, id)
	if _, ok := apperrors.IsNotFoundError(err); ok {
		uc.logger.Debug("transaction details requested for missing transaction", zap.Int64("transactionId", id))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items := make([]dto.TransactionItemDTO, len(details.Items))
	for i, item := range details.Items {
		items[i] = dto.TransactionItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		}
	}

	return &dto.TransactionDetailsResponse{
		ID:              details.ID,
		Type:            string(details.Type),
		ReferenceNumber: details.ReferenceNumber,
		CustomerID:      details.CustomerID,
		CustomerName:    details.CustomerName,
		SupplierID:      details.SupplierID,
		SupplierName:    details.SupplierName,
		TotalAmount:     details.TotalAmount,
		Notes:           details.Notes,
		TransactionDate: details.TransactionDate,
		Items:           items,
	}, nil
}

// ListTransactions accepts an empty type for all transactions.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, txType string) ([]dto.TransactionSummaryDTO, error) {
	var filter *domain.TransactionType
	if txType != "" {
		t := domain.TransactionType(txType)
		if !t.Valid() {
			return nil, apperrors.NewValidationError("invalid type", apperrors.ValidationDetail{
				Field:   "type",
				Message: "type must be sale or purchase",
			})
		}
		filter = &t
	}

	summaries, err := uc.service.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TransactionSummaryDTO, len(summaries))
	for i, s := range summaries {
		out[i] = dto.TransactionSummaryDTO{
			ID:               s.ID,
			Type:             string(s.Type),
			ReferenceNumber:  s.ReferenceNumber,
			TotalAmount:      s.TotalAmount,
			TransactionDate:  s.TransactionDate,
			CounterpartyName: s.CounterpartyName,
		}
	}
	return out, nil
}

func unknownReference(err error, field string) error {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   field,
			Message: field + " must reference an existing record",
		})
	}
	return err
}

func referenceOrGenerated(reference, prefix string) string {
	if ref := strings.TrimSpace(reference); ref != "" {
		return ref
	}
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.New().String()[:8]))
}
