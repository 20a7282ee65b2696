package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stockroom/internal/domain"
	"stockroom/internal/errors"
)

type MySQLSupplierRepository struct {
	db *sql.DB
}

func NewMySQLSupplierRepository(db *sql.DB) *MySQLSupplierRepository {
	return &MySQLSupplierRepository{db: db}
}

const supplierColumns = `id, name, contact_person, phone, email, address, created_at`

func scanSupplier(row rowScanner) (*domain.Supplier, error) {
	var s domain.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Phone, &s.Email, &s.Address, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *MySQLSupplierRepository) FindByID(ctx context.Context, id int64) (*domain.Supplier, error) {
	s, err := scanSupplier(r.db.QueryRowContext(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("supplier with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying supplier by id: %w", err)
	}
	return s, nil
}

func (r *MySQLSupplierRepository) List(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning supplier row: %w", err)
		}
		suppliers = append(suppliers, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating supplier rows: %w", err)
	}
	return suppliers, nil
}

func (r *MySQLSupplierRepository) Insert(ctx context.Context, s domain.Supplier) (int64, error) {
	query := `INSERT INTO suppliers (name, contact_person, phone, email, address) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address)
	if err != nil {
		return 0, fmt.Errorf("inserting supplier: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

func (r *MySQLSupplierRepository) Update(ctx context.Context, s domain.Supplier) error {
	query := `UPDATE suppliers SET name = ?, contact_person = ?, phone = ?, email = ?, address = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address, s.ID)
	if err != nil {
		return fmt.Errorf("updating supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return checkAffected("supplier", s.ID, rowsAffected)
}

// Delete fails with a ConflictError while products or purchases reference
// the supplier.
func (r *MySQLSupplierRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		return classifyDeleteError("supplier", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return checkAffected("supplier", id, rowsAffected)
}
