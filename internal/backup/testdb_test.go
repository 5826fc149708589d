package backup

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nithyasundar/bakehouse-backend/pkg/logger"
)

var backupTestDDL = map[string]string{
	"base_categories": `
CREATE TABLE IF NOT EXISTS base_categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	"categories": `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL,
  base_category_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	"tags": `
CREATE TABLE IF NOT EXISTS tags (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
	"products": `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  mrp REAL NOT NULL,
  selling_price REAL,
  price REAL,
  category_id TEXT,
  category TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	"product_tags": `
CREATE TABLE IF NOT EXISTS product_tags (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  tag_id TEXT NOT NULL,
  created_at DATETIME
);`,
	"profiles": `
CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  email TEXT,
  name TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	"invoice_settings": `
CREATE TABLE IF NOT EXISTS invoice_settings (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  business_name TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	"orders": `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  status TEXT NOT NULL,
  subtotal INTEGER NOT NULL DEFAULT 0,
  shipping_charges REAL NOT NULL DEFAULT 0,
  discount_amount REAL NOT NULL DEFAULT 0,
  total INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	"order_items": `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME
);`,
}

// setupBackupTestDB creates the full schema, minus any tables listed in
// skip (used to simulate a broken source or destination).
func setupBackupTestDB(t *testing.T, skip ...string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	skipped := map[string]bool{}
	for _, table := range skip {
		skipped[table] = true
	}
	for _, spec := range Specs {
		if skipped[spec.Name] {
			continue
		}
		require.NoError(t, db.Exec(backupTestDDL[spec.Name]).Error)
	}
	return db
}

func testBackupLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func insertRow(t *testing.T, db *gorm.DB, table string, row Row) {
	t.Helper()
	require.NoError(t, db.Table(table).Create(&row).Error)
}
