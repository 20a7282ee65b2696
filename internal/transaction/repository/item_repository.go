package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
	"stockroom/internal/errors"
	"stockroom/internal/infrastructure/mysql"
)

type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

func (r *MySQLItemRepository) Insert(ctx context.Context, tx *sql.Tx, item domain.TransactionItem) (int64, error) {
	query := `
		INSERT INTO transaction_items (transaction_id, product_id, quantity, unit_price, total_price)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		item.TransactionID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice,
	)
	if err != nil {
		if mysql.IsOutOfRange(err) {
			return 0, errAmountOutOfRange()
		}
		return 0, fmt.Errorf("inserting transaction item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

// FindByTransaction locks and returns every item of the transaction.
func (r *MySQLItemRepository) FindByTransaction(ctx context.Context, tx *sql.Tx, transactionID int64) ([]domain.TransactionItem, error) {
	query := `
		SELECT id, transaction_id, product_id, quantity, unit_price, total_price
		FROM transaction_items
		WHERE transaction_id = ?
		ORDER BY product_id
		FOR UPDATE
	`

	rows, err := tx.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("querying transaction items: %w", err)
	}
	defer rows.Close()

	items := []domain.TransactionItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction item row: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLItemRepository) FindByTransactionAndProductForUpdate(ctx context.Context, tx *sql.Tx, transactionID, productID int64) (*domain.TransactionItem, error) {
	query := `
		SELECT id, transaction_id, product_id, quantity, unit_price, total_price
		FROM transaction_items
		WHERE transaction_id = ? AND product_id = ?
		FOR UPDATE
	`

	item, err := scanItem(tx.QueryRowContext(ctx, query, transactionID, productID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf(
			"product %d is not part of transaction %d", productID, transactionID,
		))
	}
	if err != nil {
		return nil, fmt.Errorf("querying transaction item: %w", err)
	}
	return item, nil
}

// Update writes the item's quantity and total price.
func (r *MySQLItemRepository) Update(ctx context.Context, tx *sql.Tx, item domain.TransactionItem) error {
	query := `UPDATE transaction_items SET quantity = ?, total_price = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, item.Quantity, item.TotalPrice, item.ID); err != nil {
		return fmt.Errorf("updating transaction item: %w", err)
	}
	return nil
}

func (r *MySQLItemRepository) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting transaction item: %w", err)
	}
	return nil
}

func (r *MySQLItemRepository) DeleteByTransaction(ctx context.Context, tx *sql.Tx, transactionID int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_items WHERE transaction_id = ?`, transactionID); err != nil {
		return fmt.Errorf("deleting transaction items: %w", err)
	}
	return nil
}

// SumTotals recomputes the total of the transaction's current items. It is
// zero when no item remains.
func (r *MySQLItemRepository) SumTotals(ctx context.Context, tx *sql.Tx, transactionID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_price), 0) FROM transaction_items WHERE transaction_id = ?`

	var total decimal.Decimal
	if err := tx.QueryRowContext(ctx, query, transactionID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing transaction items: %w", err)
	}
	return total, nil
}

func scanItem(row rowScanner) (*domain.TransactionItem, error) {
	var item domain.TransactionItem
	if err := row.Scan(
		&item.ID, &item.TransactionID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.TotalPrice,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
