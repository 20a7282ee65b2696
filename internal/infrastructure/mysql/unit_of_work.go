package mysql

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	apperrors "stockroom/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// UnitOfWork runs a function inside one database transaction. Every write a
// workflow makes goes through Do so that the rows it touches commit together
// or not at all.
type UnitOfWork struct {
	db      TransactionManager
	timeout time.Duration
	logger  *zap.Logger
}

func NewUnitOfWork(db TransactionManager, timeout time.Duration, logger *zap.Logger) *UnitOfWork {
	return &UnitOfWork{
		db:      db,
		timeout: timeout,
		logger:  logger,
	}
}

// Do commits when fn returns nil and rolls back otherwise. Errors that are
// not already typed are returned as StorageError.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	tx, err := u.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		u.logger.Error("failed to begin transaction", zap.Error(err))
		return classify("beginning transaction", err)
	}
	// Rollback after a successful Commit is a no-op returning sql.ErrTxDone.
	defer tx.Rollback()

	if err := fn(txCtx, tx); err != nil {
		u.logger.Warn("transaction rolled back", zap.Error(err))
		return classify("writing changes", err)
	}

	if err := tx.Commit(); err != nil {
		u.logger.Error("failed to commit transaction", zap.Error(err))
		return classify("committing transaction", err)
	}

	return nil
}

func classify(message string, err error) error {
	if apperrors.IsDomainError(err) {
		return err
	}
	if IsDeadlock(err) {
		return apperrors.NewRetryableStorageError(message, err)
	}
	return apperrors.NewStorageError(message, err)
}
