package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type LowStockRow struct {
	ID            int64          `db:"id"`
	Name          string         `db:"name"`
	SKU           sql.NullString `db:"sku"`
	StockQuantity int            `db:"stock_quantity"`
	MinStockLevel int            `db:"min_stock_level"`
	CategoryName  sql.NullString `db:"category_name"`
}

type DailySalesRow struct {
	Date             time.Time       `db:"sale_date"`
	TransactionCount int             `db:"transaction_count"`
	TotalSales       decimal.Decimal `db:"total_sales"`
}

type InventoryStatsRow struct {
	TotalProducts   int             `db:"total_products"`
	InStock         int             `db:"in_stock"`
	OutOfStock      int             `db:"out_of_stock"`
	LowStock        int             `db:"low_stock"`
	TotalStockValue decimal.Decimal `db:"total_stock_value"`
	CategoriesCount int             `db:"categories_count"`
	SuppliersCount  int             `db:"suppliers_count"`
}

type ReconciliationRow struct {
	ProductID     int64  `db:"product_id"`
	Name          string `db:"name"`
	StockQuantity int    `db:"stock_quantity"`
	LedgerBalance int    `db:"ledger_balance"`
}

// MySQLReportRepository runs the read-only aggregate queries. It never writes.
type MySQLReportRepository struct {
	DB *sqlx.DB
}

func NewMySQLReportRepository(db *sql.DB) *MySQLReportRepository {
	return &MySQLReportRepository{DB: sqlx.NewDb(db, "mysql")}
}

func (r *MySQLReportRepository) LowStock(ctx context.Context) ([]LowStockRow, error) {
	query := `
		SELECT p.id, p.name, p.sku, p.stock_quantity, p.min_stock_level, c.name AS category_name
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.is_deleted = 0 AND p.stock_quantity <= p.min_stock_level
		ORDER BY p.stock_quantity ASC, p.id ASC
	`

	rows := []LowStockRow{}
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("querying low stock products: %w", err)
	}
	return rows, nil
}

// SalesSummary groups sale transactions by calendar day within [from, to)
// newest day first.
func (r *MySQLReportRepository) SalesSummary(ctx context.Context, from, to time.Time) ([]DailySalesRow, error) {
	query := `
		SELECT DATE(transaction_date) AS sale_date,
		       COUNT(*) AS transaction_count,
		       COALESCE(SUM(total_amount), 0) AS total_sales
		FROM transactions
		WHERE type = 'sale' AND transaction_date >= ? AND transaction_date < ?
		GROUP BY DATE(transaction_date)
		ORDER BY sale_date DESC
	`

	rows := []DailySalesRow{}
	if err := r.DB.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("querying sales summary: %w", err)
	}
	return rows, nil
}

func (r *MySQLReportRepository) InventoryStats(ctx context.Context) (*InventoryStatsRow, error) {
	query := `
		SELECT COUNT(*) AS total_products,
		       COALESCE(SUM(CASE WHEN stock_quantity > 0 THEN 1 ELSE 0 END), 0) AS in_stock,
		       COALESCE(SUM(CASE WHEN stock_quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
		       COALESCE(SUM(CASE WHEN stock_quantity <= min_stock_level THEN 1 ELSE 0 END), 0) AS low_stock,
		       COALESCE(SUM(stock_quantity * selling_price), 0) AS total_stock_value,
		       COUNT(DISTINCT category_id) AS categories_count,
		       COUNT(DISTINCT supplier_id) AS suppliers_count
		FROM products
		WHERE is_deleted = 0
	`

	var stats InventoryStatsRow
	if err := r.DB.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("querying inventory stats: %w", err)
	}
	return &stats, nil
}

// Reconciliation lists products whose stored stock disagrees with the sum of
// their ledger entries. An empty result means the ledger explains every row.
func (r *MySQLReportRepository) Reconciliation(ctx context.Context) ([]ReconciliationRow, error) {
	query := `
		SELECT p.id AS product_id, p.name, p.stock_quantity,
		       COALESCE(SUM(CASE WHEN m.movement_type IN ('in', 'adjustment-in') THEN m.quantity ELSE -m.quantity END), 0) AS ledger_balance
		FROM products p
		LEFT JOIN stock_movements m ON m.product_id = p.id
		GROUP BY p.id, p.name, p.stock_quantity
		HAVING p.stock_quantity <> ledger_balance
		ORDER BY p.id
	`

	rows := []ReconciliationRow{}
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("querying stock reconciliation: %w", err)
	}
	return rows, nil
}
