package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stockroom/internal/domain"
	"stockroom/internal/errors"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type MySQLCustomerRepository struct {
	db *sql.DB
}

func NewMySQLCustomerRepository(db *sql.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}

const customerColumns = `id, name, phone, email, address, created_at`

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MySQLCustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("customer with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer by id: %w", err)
	}
	return c, nil
}

func (r *MySQLCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning customer row: %w", err)
		}
		customers = append(customers, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating customer rows: %w", err)
	}
	return customers, nil
}

func (r *MySQLCustomerRepository) Insert(ctx context.Context, c domain.Customer) (int64, error) {
	query := `INSERT INTO customers (name, phone, email, address) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Phone, c.Email, c.Address)
	if err != nil {
		return 0, fmt.Errorf("inserting customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

func (r *MySQLCustomerRepository) Update(ctx context.Context, c domain.Customer) error {
	query := `UPDATE customers SET name = ?, phone = ?, email = ?, address = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Phone, c.Email, c.Address, c.ID)
	if err != nil {
		return fmt.Errorf("updating customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return checkAffected("customer", c.ID, rowsAffected)
}

// Delete fails with a ConflictError while sales reference the customer.
func (r *MySQLCustomerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return classifyDeleteError("customer", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return checkAffected("customer", id, rowsAffected)
}
