package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stockroom/internal/domain"
)

// MySQLRepository is the stock ledger. Entries are only ever appended.
type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// Record appends m inside tx. The entry is validated first so a bad
// quantity or type never reaches the table.
func (r *MySQLRepository) Record(ctx context.Context, tx *sql.Tx, m domain.StockMovement) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO stock_movements (product_id, movement_type, quantity, reference_id, notes)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query, m.ProductID, string(m.Type), m.Quantity, m.ReferenceID, m.Notes)
	if err != nil {
		return 0, fmt.Errorf("inserting stock movement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

// ListByProduct returns up to limit entries for the product, newest first.
func (r *MySQLRepository) ListByProduct(ctx context.Context, productID int64, limit int) ([]domain.StockMovement, error) {
	query := `
		SELECT id, product_id, movement_type, quantity, reference_id, notes, created_at
		FROM stock_movements
		WHERE product_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying stock movements: %w", err)
	}
	defer rows.Close()

	movements := []domain.StockMovement{}
	for rows.Next() {
		var (
			m           domain.StockMovement
			movement    string
			referenceID sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &movement, &m.Quantity, &referenceID, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning stock movement row: %w", err)
		}
		m.Type = domain.MovementType(movement)
		if referenceID.Valid {
			m.ReferenceID = &referenceID.Int64
		}
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock movement rows: %w", err)
	}

	return movements, nil
}
