package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error)
	AdjustStock(ctx context.Context, tx *sql.Tx, id int64, delta int) error
}

type MovementRepository interface {
	Record(ctx context.Context, tx *sql.Tx, m domain.StockMovement) (int64, error)
	ListByProduct(ctx context.Context, productID int64, limit int) ([]domain.StockMovement, error)
}

type StockService struct {
	uow          UnitOfWork
	productRepo  ProductRepository
	movementRepo MovementRepository
	logger       *zap.Logger
}

func NewStockService(uow UnitOfWork, productRepo ProductRepository, movementRepo MovementRepository, logger *zap.Logger) *StockService {
	return &StockService{
		uow:          uow,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		logger:       logger,
	}
}

// AdjustStockManually appends one ledger entry of the requested type and
// applies its signed effect to the product, in one unit of work.
func (s *StockService) AdjustStockManually(ctx context.Context, req dto.AdjustStockRequest) error {
	movement := req.Movement()
	if err := movement.Validate(); err != nil {
		return err
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		product, err := s.productRepo.FindByIDForUpdate(ctx, tx, movement.ProductID)
		if err != nil {
			return err
		}

		delta := movement.Delta()
		if product.StockQuantity+delta < 0 {
			return apperrors.NewInvalidStateError(fmt.Sprintf(
				"removing %d units from product %d would leave %d units",
				movement.Quantity, product.ID, product.StockQuantity+delta,
			))
		}

		if err := s.productRepo.AdjustStock(ctx, tx, movement.ProductID, delta); err != nil {
			return err
		}
		_, err = s.movementRepo.Record(ctx, tx, movement)
		return err
	})
	if err != nil {
		s.logger.Warn("stock adjustment failed",
			zap.Int64("productId", movement.ProductID),
			zap.String("movementType", string(movement.Type)),
			zap.Int("quantity", movement.Quantity),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("stock adjusted",
		zap.Int64("productId", movement.ProductID),
		zap.String("movementType", string(movement.Type)),
		zap.Int("quantity", movement.Quantity),
	)
	return nil
}

// ListMovements returns the newest entries of an existing product's ledger.
// A limit outside 1..MaxMovementLimit falls back to the default.
func (s *StockService) ListMovements(ctx context.Context, productID int64, limit int) ([]domain.StockMovement, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > dto.MaxMovementLimit {
		limit = dto.DefaultMovementLimit
	}
	return s.movementRepo.ListByProduct(ctx, productID, limit)
}
