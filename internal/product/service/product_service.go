package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
)

type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error)
	List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	Insert(ctx context.Context, tx *sql.Tx, p domain.Product) (int64, error)
	Update(ctx context.Context, tx *sql.Tx, p domain.Product) error
	SoftDelete(ctx context.Context, id int64) error
	AdjustStock(ctx context.Context, tx *sql.Tx, id int64, delta int) error
}

type MovementRepository interface {
	Record(ctx context.Context, tx *sql.Tx, m domain.StockMovement) (int64, error)
}

type ProductService struct {
	uow          UnitOfWork
	productRepo  ProductRepository
	movementRepo MovementRepository
	logger       *zap.Logger
}

func NewProductService(uow UnitOfWork, productRepo ProductRepository, movementRepo MovementRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		uow:          uow,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		logger:       logger,
	}
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	return s.productRepo.List(ctx, f)
}

// Create inserts the product with zero stock and books any opening quantity
// as an "in" movement so the ledger explains it.
func (s *ProductService) Create(ctx context.Context, req dto.ProductRequest) (*domain.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		id, err = s.productRepo.Insert(ctx, tx, req.Product())
		if err != nil {
			return err
		}

		if req.StockQuantity == nil || *req.StockQuantity == 0 {
			return nil
		}
		return s.applyStockChange(ctx, tx, id, *req.StockQuantity, domain.MovementIn, domain.NoteInitialStock)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.Int64("productId", id))
	return s.productRepo.FindByID(ctx, id)
}

// Update rewrites the descriptive fields. A changed stock_quantity is booked
// as an adjustment for the difference instead of being written directly.
func (s *ProductService) Update(ctx context.Context, id int64, req dto.ProductRequest) (*domain.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := s.productRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		p := req.Product()
		p.ID = id
		if err := s.productRepo.Update(ctx, tx, p); err != nil {
			return err
		}

		if req.StockQuantity == nil {
			return nil
		}
		delta := *req.StockQuantity - current.StockQuantity
		if delta == 0 {
			return nil
		}
		movementType, quantity := domain.AdjustmentFor(delta)
		return s.applyStockChange(ctx, tx, id, quantity, movementType, domain.NoteProductEdit)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.Int64("productId", id))
	return s.productRepo.FindByID(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.Int64("productId", id))
	return nil
}

func (s *ProductService) applyStockChange(ctx context.Context, tx *sql.Tx, productID int64, quantity int, movementType domain.MovementType, note string) error {
	movement := domain.StockMovement{
		ProductID: productID,
		Type:      movementType,
		Quantity:  quantity,
		Notes:     note,
	}
	if err := s.productRepo.AdjustStock(ctx, tx, productID, movement.Delta()); err != nil {
		return err
	}
	_, err := s.movementRepo.Record(ctx, tx, movement)
	return err
}
