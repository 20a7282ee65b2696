package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"stockroom/internal/domain"
)

// Delete removes a transaction and its lines after booking a reversal for
// every line, which restores the stock the transaction moved.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	var reversed int
	err := s.uow.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		transaction, err := s.transactionRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		// Items come back ordered by product id, which keeps the product
		// locks taken by AdjustStock in the same order as Record.
		items, err := s.itemRepo.FindByTransaction(ctx, tx, id)
		if err != nil {
			return err
		}

		reverse := transaction.Type.StockEffect().Reverse()
		for _, item := range items {
			err := s.move(ctx, tx, domain.StockMovement{
				ProductID:   item.ProductID,
				Type:        reverse,
				Quantity:    item.Quantity,
				ReferenceID: &id,
				Notes:       domain.NoteDeletionReversal,
			})
			if err != nil {
				return err
			}
		}
		reversed = len(items)

		if err := s.itemRepo.DeleteByTransaction(ctx, tx, id); err != nil {
			return err
		}
		return s.transactionRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		s.logger.Warn("transaction not deleted", zap.Int64("transactionId", id), zap.Error(err))
		return err
	}

	s.logger.Info("transaction deleted", zap.Int64("transactionId", id), zap.Int("reversedItems", reversed))
	return nil
}
