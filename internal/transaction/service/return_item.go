package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

// ReturnItem takes quantity units of a product back out of a transaction and
// reverses their stock effect. The transaction total is recomputed from the
// remaining lines; a transaction left without lines stays with a zero total.
func (s *TransactionService) ReturnItem(ctx context.Context, req dto.ReturnItemRequest) (*dto.ReturnResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		newTotal    decimal.Decimal
		newQuantity int
	)
	err := s.uow.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		transaction, err := s.transactionRepo.FindByIDForUpdate(ctx, tx, req.TransactionID)
		if err != nil {
			return err
		}

		item, err := s.itemRepo.FindByTransactionAndProductForUpdate(ctx, tx, req.TransactionID, req.ProductID)
		if err != nil {
			return err
		}

		if req.Quantity > item.Quantity {
			return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   "quantity",
				Message: fmt.Sprintf("cannot return %d units, only %d remain on the transaction", req.Quantity, item.Quantity),
			})
		}

		item.Reduce(req.Quantity)
		if item.Exhausted() {
			err = s.itemRepo.Delete(ctx, tx, item.ID)
		} else {
			err = s.itemRepo.Update(ctx, tx, *item)
		}
		if err != nil {
			return err
		}

		newTotal, err = s.itemRepo.SumTotals(ctx, tx, req.TransactionID)
		if err != nil {
			return err
		}
		if err := s.transactionRepo.UpdateTotalAmount(ctx, tx, req.TransactionID, newTotal); err != nil {
			return err
		}

		newQuantity = item.Quantity
		return s.move(ctx, tx, domain.StockMovement{
			ProductID:   req.ProductID,
			Type:        transaction.Type.StockEffect().Reverse(),
			Quantity:    req.Quantity,
			ReferenceID: &req.TransactionID,
			Notes:       domain.NoteReturn,
		})
	})
	if err != nil {
		s.logger.Warn("return not recorded",
			zap.Int64("transactionId", req.TransactionID),
			zap.Int64("productId", req.ProductID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("item returned",
		zap.Int64("transactionId", req.TransactionID),
		zap.Int64("productId", req.ProductID),
		zap.Int("quantity", req.Quantity),
		zap.Int("remaining", newQuantity),
	)

	return &dto.ReturnResult{
		NewTotalAmount: newTotal,
		NewQuantity:    newQuantity,
	}, nil
}
