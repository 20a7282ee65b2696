package service

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stockroom/internal/domain"
)

type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

type ProductRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error)
	AdjustStock(ctx context.Context, tx *sql.Tx, id int64, delta int) error
}

type MovementRepository interface {
	Record(ctx context.Context, tx *sql.Tx, m domain.StockMovement) (int64, error)
}

type TransactionRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, t domain.Transaction) (int64, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Transaction, error)
	UpdateTotalAmount(ctx context.Context, tx *sql.Tx, id int64, total decimal.Decimal) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
	FindDetails(ctx context.Context, id int64) (*domain.TransactionDetails, error)
	List(ctx context.Context, txType *domain.TransactionType) ([]domain.TransactionSummary, error)
}

type ItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.TransactionItem) (int64, error)
	FindByTransaction(ctx context.Context, tx *sql.Tx, transactionID int64) ([]domain.TransactionItem, error)
	FindByTransactionAndProductForUpdate(ctx context.Context, tx *sql.Tx, transactionID, productID int64) (*domain.TransactionItem, error)
	Update(ctx context.Context, tx *sql.Tx, item domain.TransactionItem) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
	DeleteByTransaction(ctx context.Context, tx *sql.Tx, transactionID int64) error
	SumTotals(ctx context.Context, tx *sql.Tx, transactionID int64) (decimal.Decimal, error)
}

// TransactionService owns every write that touches a transaction. Each
// workflow runs in a single unit of work.
type TransactionService struct {
	uow             UnitOfWork
	productRepo     ProductRepository
	movementRepo    MovementRepository
	transactionRepo TransactionRepository
	itemRepo        ItemRepository
	logger          *zap.Logger
}

func NewTransactionService(
	uow UnitOfWork,
	productRepo ProductRepository,
	movementRepo MovementRepository,
	transactionRepo TransactionRepository,
	itemRepo ItemRepository,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		uow:             uow,
		productRepo:     productRepo,
		movementRepo:    movementRepo,
		transactionRepo: transactionRepo,
		itemRepo:        itemRepo,
		logger:          logger,
	}
}

func (s *TransactionService) Details(ctx context.Context, id int64) (*domain.TransactionDetails, error) {
	return s.transactionRepo.FindDetails(ctx, id)
}

func (s *TransactionService) List(ctx context.Context, txType *domain.TransactionType) ([]domain.TransactionSummary, error) {
	return s.transactionRepo.List(ctx, txType)
}

// move applies one ledger-backed stock change inside tx.
func (s *TransactionService) move(ctx context.Context, tx *sql.Tx, m domain.StockMovement) error {
	if err := s.productRepo.AdjustStock(ctx, tx, m.ProductID, m.Delta()); err != nil {
		return err
	}
	_, err := s.movementRepo.Record(ctx, tx, m)
	return err
}
