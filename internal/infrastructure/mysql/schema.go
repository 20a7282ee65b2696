package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

type table struct {
	name  string
	query string
}

// Tables are listed in dependency order.
var tables = []table{
	{"categories", `
	CREATE TABLE IF NOT EXISTS categories (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		description TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_categories_name (name)
	)`},
	{"suppliers", `
	CREATE TABLE IF NOT EXISTS suppliers (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		contact_person VARCHAR(150) NOT NULL DEFAULT '',
		phone VARCHAR(50) NOT NULL DEFAULT '',
		email VARCHAR(150) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`},
	{"customers", `
	CREATE TABLE IF NOT EXISTS customers (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		phone VARCHAR(50) NOT NULL DEFAULT '',
		email VARCHAR(150) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`},
	{"products", `
	CREATE TABLE IF NOT EXISTS products (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		sku VARCHAR(100) NULL,
		barcode VARCHAR(100) NOT NULL DEFAULT '',
		category_id BIGINT NULL,
		supplier_id BIGINT NULL,
		unit_cost DECIMAL(12,2) NOT NULL DEFAULT 0,
		selling_price DECIMAL(12,2) NOT NULL DEFAULT 0,
		stock_quantity INT NOT NULL DEFAULT 0,
		min_stock_level INT NOT NULL DEFAULT 0,
		description TEXT NOT NULL,
		is_deleted TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_products_sku (sku),
		CONSTRAINT chk_products_stock CHECK (stock_quantity >= 0),
		CONSTRAINT chk_products_min_stock CHECK (min_stock_level >= 0),
		CONSTRAINT fk_products_category FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE RESTRICT,
		CONSTRAINT fk_products_supplier FOREIGN KEY (supplier_id) REFERENCES suppliers(id) ON DELETE RESTRICT
	)`},
	{"transactions", `
	CREATE TABLE IF NOT EXISTS transactions (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		type VARCHAR(20) NOT NULL,
		reference_number VARCHAR(100) NOT NULL,
		customer_id BIGINT NULL,
		supplier_id BIGINT NULL,
		total_amount DECIMAL(14,2) NOT NULL DEFAULT 0,
		notes TEXT NOT NULL,
		transaction_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_transactions_type_date (type, transaction_date),
		CONSTRAINT fk_transactions_customer FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE RESTRICT,
		CONSTRAINT fk_transactions_supplier FOREIGN KEY (supplier_id) REFERENCES suppliers(id) ON DELETE RESTRICT
	)`},
	{"transaction_items", `
	CREATE TABLE IF NOT EXISTS transaction_items (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		transaction_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(12,2) NOT NULL,
		total_price DECIMAL(14,2) NOT NULL,
		UNIQUE KEY uq_items_transaction_product (transaction_id, product_id),
		INDEX idx_items_product (product_id),
		CONSTRAINT chk_items_quantity CHECK (quantity > 0),
		CONSTRAINT fk_items_transaction FOREIGN KEY (transaction_id) REFERENCES transactions(id) ON DELETE RESTRICT,
		CONSTRAINT fk_items_product FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT
	)`},
	// reference_id has no foreign key: ledger rows outlive deleted transactions.
	{"stock_movements", `
	CREATE TABLE IF NOT EXISTS stock_movements (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		product_id BIGINT NOT NULL,
		movement_type VARCHAR(20) NOT NULL,
		quantity INT NOT NULL,
		reference_id BIGINT NULL,
		notes VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		INDEX idx_movements_product (product_id, created_at),
		INDEX idx_movements_reference (reference_id),
		CONSTRAINT chk_movements_quantity CHECK (quantity > 0),
		CONSTRAINT fk_movements_product FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT
	)`},
}

func TableNames() []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.name
	}
	return names
}

// Migrate creates any missing table. Existing tables are left untouched.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, t := range tables {
		if _, err := db.ExecContext(ctx, t.query); err != nil {
			return fmt.Errorf("creating table %s: %w", t.name, err)
		}
	}
	return nil
}
