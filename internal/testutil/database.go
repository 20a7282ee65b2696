package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"stockroom/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/stockroom_test?parseTime=true&clientFoundRows=true"

// SetupTestDB opens the integration database named by STOCKROOM_TEST_DSN,
// falling back to a local stockroom_test schema. The test is skipped when the
// server is not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("STOCKROOM_TEST_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables creates the schema and empties every table.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := mysql.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	truncate(t, db)
}

// CleanupTestDB empties every table and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	if db == nil {
		return
	}
	truncate(t, db)
	db.Close()
}

func truncate(t *testing.T, db *sql.DB) {
	names := mysql.TableNames()
	for i := len(names) - 1; i >= 0; i-- {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", names[i])); err != nil {
			t.Logf("failed to clean table %s: %v", names[i], err)
		}
	}
}

// InsertProduct seeds a product row with the given stock and a matching
// opening ledger entry.
func InsertProduct(t *testing.T, db *sql.DB, name string, stock int, price string) int64 {
	t.Helper()

	result, err := db.Exec(`
		INSERT INTO products (name, barcode, unit_cost, selling_price, stock_quantity, min_stock_level, description)
		VALUES (?, '', ?, ?, ?, 0, '')`, name, price, price, stock)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read product id: %v", err)
	}

	if stock > 0 {
		if _, err := db.Exec(`
			INSERT INTO stock_movements (product_id, movement_type, quantity, notes)
			VALUES (?, 'in', ?, 'initial stock')`, id, stock); err != nil {
			t.Fatalf("failed to insert opening movement: %v", err)
		}
	}

	return id
}

func StockOf(t *testing.T, db *sql.DB, productID int64) int {
	t.Helper()

	var stock int
	if err := db.QueryRow(`SELECT stock_quantity FROM products WHERE id = ?`, productID).Scan(&stock); err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return stock
}

// LedgerBalanceOf computes the stock implied by the product's movements.
func LedgerBalanceOf(t *testing.T, db *sql.DB, productID int64) int {
	t.Helper()

	var balance int
	err := db.QueryRow(`
		SELECT COALESCE(SUM(CASE WHEN movement_type IN ('in', 'adjustment-in') THEN quantity ELSE -quantity END), 0)
		FROM stock_movements WHERE product_id = ?`, productID).Scan(&balance)
	if err != nil {
		t.Fatalf("failed to read ledger balance: %v", err)
	}
	return balance
}

func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
