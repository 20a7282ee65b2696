package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"stockroom/internal/domain"
	"stockroom/internal/errors"
	"stockroom/internal/infrastructure/mysql"
)

const productColumns = `id, name, sku, barcode, category_id, supplier_id, unit_cost, selling_price,
	stock_quantity, min_stock_level, description, is_deleted, created_at`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p          domain.Product
		sku        sql.NullString
		categoryID sql.NullInt64
		supplierID sql.NullInt64
	)
	err := row.Scan(
		&p.ID, &p.Name, &sku, &p.Barcode, &categoryID, &supplierID,
		&p.UnitCost, &p.SellingPrice, &p.StockQuantity, &p.MinStockLevel,
		&p.Description, &p.IsDeleted, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sku.Valid {
		p.SKU = &sku.String
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	if supplierID.Valid {
		p.SupplierID = &supplierID.Int64
	}
	return &p, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ? AND is_deleted = 0`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}
	return p, nil
}

// FindByIDForUpdate reads the product and holds its row lock until tx ends,
// so the stock it reports is the value the commit will see.
func (r *MySQLRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ? AND is_deleted = 0 FOR UPDATE`

	p, err := scanProduct(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id for update: %w", err)
	}
	return p, nil
}

func (r *MySQLRepository) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	conditions := []string{"is_deleted = 0"}
	args := []interface{}{}

	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		conditions = append(conditions, "(LOWER(name) LIKE ? OR LOWER(COALESCE(sku, '')) LIKE ? OR LOWER(barcode) LIKE ?)")
		args = append(args, like, like, like)
	}
	if f.CategoryID != nil {
		conditions = append(conditions, "category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.SupplierID != nil {
		conditions = append(conditions, "supplier_id = ?")
		args = append(args, *f.SupplierID)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

// Insert always stores a zero stock_quantity; opening stock is applied
// afterwards through AdjustStock so it gets a ledger entry.
func (r *MySQLRepository) Insert(ctx context.Context, tx *sql.Tx, p domain.Product) (int64, error) {
	query := `
		INSERT INTO products (name, sku, barcode, category_id, supplier_id, unit_cost, selling_price,
		                      stock_quantity, min_stock_level, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		p.Name, p.SKU, p.Barcode, p.CategoryID, p.SupplierID, p.UnitCost, p.SellingPrice,
		p.MinStockLevel, p.Description,
	)
	if err != nil {
		return 0, classifyWriteError("inserting product", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

// Update writes the descriptive fields. stock_quantity is not touched here.
func (r *MySQLRepository) Update(ctx context.Context, tx *sql.Tx, p domain.Product) error {
	query := `
		UPDATE products
		SET name = ?, sku = ?, barcode = ?, category_id = ?, supplier_id = ?, unit_cost = ?,
		    selling_price = ?, min_stock_level = ?, description = ?
		WHERE id = ? AND is_deleted = 0
	`

	_, err := tx.ExecContext(ctx, query,
		p.Name, p.SKU, p.Barcode, p.CategoryID, p.SupplierID, p.UnitCost,
		p.SellingPrice, p.MinStockLevel, p.Description, p.ID,
	)
	if err != nil {
		return classifyWriteError("updating product", err)
	}
	return nil
}

// SoftDelete hides the product and releases its SKU. Ledger and transaction
// rows keep pointing at it.
func (r *MySQLRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE products SET is_deleted = 1, sku = NULL WHERE id = ? AND is_deleted = 0`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}

	return nil
}

// AdjustStock applies stock_quantity += delta. It is the only statement that
// changes stock_quantity, and refuses any change that would leave it
// negative.
func (r *MySQLRepository) AdjustStock(ctx context.Context, tx *sql.Tx, id int64, delta int) error {
	query := `
		UPDATE products SET stock_quantity = stock_quantity + ?
		WHERE id = ? AND is_deleted = 0 AND stock_quantity + ? >= 0
	`

	result, err := tx.ExecContext(ctx, query, delta, id, delta)
	if err != nil {
		if mysql.IsCheckViolation(err) {
			return errors.NewInvalidStateError(fmt.Sprintf("stock of product %d cannot go below zero", id))
		}
		if mysql.IsOutOfRange(err) {
			return errors.NewInvalidStateError(fmt.Sprintf("adjusting stock of product %d by %d exceeds the maximum stock level", id, delta))
		}
		return fmt.Errorf("adjusting product stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var current int
	err = tx.QueryRowContext(ctx, `SELECT stock_quantity FROM products WHERE id = ? AND is_deleted = 0`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return fmt.Errorf("querying product stock: %w", err)
	}

	return errors.NewInvalidStateError(fmt.Sprintf(
		"adjusting stock of product %d by %d would leave %d units", id, delta, current+delta,
	))
}

func classifyWriteError(action string, err error) error {
	switch {
	case mysql.IsDuplicateEntry(err):
		return errors.NewConflictError("a product with this sku already exists")
	case mysql.IsMissingReference(err):
		return errors.NewValidationError("referenced category or supplier does not exist",
			errors.ValidationDetail{Field: "category_id", Message: "must reference an existing category"},
			errors.ValidationDetail{Field: "supplier_id", Message: "must reference an existing supplier"},
		)
	case mysql.IsOutOfRange(err):
		return errors.NewValidationError("a price is outside the supported range",
			errors.ValidationDetail{Field: "unit_cost", Message: "must fit the supported range"},
			errors.ValidationDetail{Field: "selling_price", Message: "must fit the supported range"},
		)
	case mysql.IsCheckViolation(err):
		return errors.NewValidationError("min_stock_level must be non-negative",
			errors.ValidationDetail{Field: "min_stock_level", Message: "must be non-negative"},
		)
	}
	return fmt.Errorf("%s: %w", action, err)
}
