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

type MySQLTransactionRepository struct {
	db *sql.DB
}

func NewMySQLTransactionRepository(db *sql.DB) *MySQLTransactionRepository {
	return &MySQLTransactionRepository{db: db}
}

func (r *MySQLTransactionRepository) Insert(ctx context.Context, tx *sql.Tx, t domain.Transaction) (int64, error) {
	query := `
		INSERT INTO transactions (type, reference_number, customer_id, supplier_id, total_amount, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		string(t.Type), t.ReferenceNumber, t.CustomerID, t.SupplierID, t.TotalAmount, t.Notes,
	)
	if err != nil {
		if mysql.IsMissingReference(err) {
			field := "customer_id"
			if t.Type == domain.TransactionTypePurchase {
				field = "supplier_id"
			}
			return 0, errors.NewValidationError("referenced counterparty does not exist", errors.ValidationDetail{
				Field:   field,
				Message: field + " must reference an existing record",
			})
		}
		if mysql.IsOutOfRange(err) {
			return 0, errAmountOutOfRange()
		}
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

func (r *MySQLTransactionRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Transaction, error) {
	query := `
		SELECT id, type, reference_number, customer_id, supplier_id, total_amount, notes, transaction_date
		FROM transactions
		WHERE id = ?
		FOR UPDATE
	`

	t, err := scanTransaction(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("transaction with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying transaction by id: %w", err)
	}
	return t, nil
}

func (r *MySQLTransactionRepository) UpdateTotalAmount(ctx context.Context, tx *sql.Tx, id int64, total decimal.Decimal) error {
	query := `UPDATE transactions SET total_amount = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, total, id); err != nil {
		return fmt.Errorf("updating transaction total amount: %w", err)
	}
	return nil
}

// Delete removes the transaction row. Its line items must already be gone.
func (r *MySQLTransactionRepository) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("transaction with id %d not found", id))
	}

	return nil
}

// FindDetails loads the transaction with counterparty and product names.
// Items is never nil.
func (r *MySQLTransactionRepository) FindDetails(ctx context.Context, id int64) (*domain.TransactionDetails, error) {
	query := `
		SELECT t.id, t.type, t.reference_number, t.customer_id, t.supplier_id, t.total_amount, t.notes,
		       t.transaction_date, c.name, s.name
		FROM transactions t
		LEFT JOIN customers c ON c.id = t.customer_id
		LEFT JOIN suppliers s ON s.id = t.supplier_id
		WHERE t.id = ?
	`

	var (
		details      domain.TransactionDetails
		txType       string
		customerID   sql.NullInt64
		supplierID   sql.NullInt64
		customerName sql.NullString
		supplierName sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&details.ID, &txType, &details.ReferenceNumber, &customerID, &supplierID,
		&details.TotalAmount, &details.Notes, &details.TransactionDate, &customerName, &supplierName,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("transaction with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying transaction details: %w", err)
	}

	details.Type = domain.TransactionType(txType)
	details.CustomerID = nullInt64(customerID)
	details.SupplierID = nullInt64(supplierID)
	details.CustomerName = nullString(customerName)
	details.SupplierName = nullString(supplierName)

	itemsQuery := `
		SELECT i.id, i.transaction_id, i.product_id, i.quantity, i.unit_price, i.total_price, COALESCE(p.name, '')
		FROM transaction_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.transaction_id = ?
		ORDER BY i.id
	`

	rows, err := r.db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("querying transaction items: %w", err)
	}
	defer rows.Close()

	details.Items = []domain.TransactionItemDetails{}
	for rows.Next() {
		var item domain.TransactionItemDetails
		if err := rows.Scan(
			&item.ID, &item.TransactionID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.ProductName,
		); err != nil {
			return nil, fmt.Errorf("scanning transaction item row: %w", err)
		}
		details.Items = append(details.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction item rows: %w", err)
	}

	return &details, nil
}

// List returns transactions newest first, optionally of a single type.
func (r *MySQLTransactionRepository) List(ctx context.Context, txType *domain.TransactionType) ([]domain.TransactionSummary, error) {
	query := `
		SELECT t.id, t.type, t.reference_number, t.customer_id, t.supplier_id, t.total_amount, t.notes,
		       t.transaction_date, COALESCE(c.name, s.name)
		FROM transactions t
		LEFT JOIN customers c ON c.id = t.customer_id
		LEFT JOIN suppliers s ON s.id = t.supplier_id
	`
	args := []interface{}{}
	if txType != nil {
		query += ` WHERE t.type = ?`
		args = append(args, string(*txType))
	}
	query += ` ORDER BY t.transaction_date DESC, t.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	summaries := []domain.TransactionSummary{}
	for rows.Next() {
		var (
			s            domain.TransactionSummary
			kind         string
			customerID   sql.NullInt64
			supplierID   sql.NullInt64
			counterparty sql.NullString
		)
		if err := rows.Scan(
			&s.ID, &kind, &s.ReferenceNumber, &customerID, &supplierID,
			&s.TotalAmount, &s.Notes, &s.TransactionDate, &counterparty,
		); err != nil {
			return nil, fmt.Errorf("scanning transaction row: %w", err)
		}
		s.Type = domain.TransactionType(kind)
		s.CustomerID = nullInt64(customerID)
		s.SupplierID = nullInt64(supplierID)
		s.CounterpartyName = nullString(counterparty)
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return summaries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		t          domain.Transaction
		txType     string
		customerID sql.NullInt64
		supplierID sql.NullInt64
	)
	if err := row.Scan(
		&t.ID, &txType, &t.ReferenceNumber, &customerID, &supplierID,
		&t.TotalAmount, &t.Notes, &t.TransactionDate,
	); err != nil {
		return nil, err
	}
	t.Type = domain.TransactionType(txType)
	t.CustomerID = nullInt64(customerID)
	t.SupplierID = nullInt64(supplierID)
	return &t, nil
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func errAmountOutOfRange() error {
	return errors.NewValidationError("amount outside the supported range", errors.ValidationDetail{
		Field:   "items",
		Message: "line and transaction totals must fit the supported range",
	})
}
