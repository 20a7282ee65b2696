package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

// Record writes a sale or purchase together with its stock movements. Stock
// for a sale is checked against the locked product rows, so nothing is
// written when any line cannot be fulfilled.
func (s *TransactionService) Record(ctx context.Context, draft dto.TransactionDraft) (*dto.RecordResult, error) {
	if !draft.Type.Valid() {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field: "type", Message: "type must be sale or purchase",
		})
	}
	if len(draft.Items) == 0 {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field: "items", Message: "items must not be empty",
		})
	}

	effect := draft.Type.StockEffect()
	items := make([]domain.TransactionItem, len(draft.Items))
	for i, line := range draft.Items {
		// Totals are only exact, and so only match what the columns hold,
		// for prices already at cent scale.
		if !domain.IsMoney(line.UnitPrice) {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field: fmt.Sprintf("items[%d].unit_price", i), Message: "unit_price must have at most 2 decimal places",
			})
		}
		items[i] = domain.NewTransactionItem(line.ProductID, line.Quantity, line.UnitPrice)
	}
	total := domain.SumTotals(items)

	var transactionID int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.lockProducts(ctx, tx, items, effect); err != nil {
			return err
		}

		var err error
		transactionID, err = s.transactionRepo.Insert(ctx, tx, domain.Transaction{
			Type:            draft.Type,
			ReferenceNumber: draft.ReferenceNumber,
			CustomerID:      draft.CustomerID,
			SupplierID:      draft.SupplierID,
			TotalAmount:     total,
			Notes:           draft.Notes,
		})
		if err != nil {
			return err
		}

		for i := range items {
			items[i].TransactionID = transactionID
			items[i].ID, err = s.itemRepo.Insert(ctx, tx, items[i])
			if err != nil {
				return err
			}

			err = s.move(ctx, tx, domain.StockMovement{
				ProductID:   items[i].ProductID,
				Type:        effect,
				Quantity:    items[i].Quantity,
				ReferenceID: &transactionID,
				Notes:       draft.Type.Note(),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("transaction not recorded",
			zap.String("type", string(draft.Type)),
			zap.Int("itemCount", len(items)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("transaction recorded",
		zap.Int64("transactionId", transactionID),
		zap.String("type", string(draft.Type)),
		zap.Int("itemCount", len(items)),
		zap.String("totalAmount", total.String()),
	)

	return &dto.RecordResult{
		TransactionID: transactionID,
		TotalAmount:   total,
		Items:         items,
	}, nil
}

// lockProducts takes the row lock of every product in ascending id order and,
// when the transaction removes stock, checks each line against the locked
// quantity.
func (s *TransactionService) lockProducts(ctx context.Context, tx *sql.Tx, items []domain.TransactionItem, effect domain.MovementType) error {
	ordered := make([]domain.TransactionItem, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ProductID < ordered[j].ProductID })

	for _, item := range ordered {
		product, err := s.productRepo.FindByIDForUpdate(ctx, tx, item.ProductID)
		if err != nil {
			return err
		}
		if effect.Sign() < 0 && !product.CanFulfil(item.Quantity) {
			return apperrors.NewInsufficientStockError(product.ID, item.Quantity, product.StockQuantity)
		}
	}
	return nil
}
