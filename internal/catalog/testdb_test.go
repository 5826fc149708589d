package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nithyasundar/bakehouse-backend/pkg/db/models"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	baseCategories := `
CREATE TABLE IF NOT EXISTS base_categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	categories := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL,
  base_category_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	tags := `
CREATE TABLE IF NOT EXISTS tags (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  image TEXT,
  mrp REAL NOT NULL,
  selling_price REAL,
  price REAL,
  category_id TEXT,
  category TEXT,
  base_weight REAL,
  weight_unit TEXT,
  weight_options TEXT,
  site_display INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	productTags := `
CREATE TABLE IF NOT EXISTS product_tags (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  tag_id TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(baseCategories).Error)
	require.NoError(t, db.Exec(categories).Error)
	require.NoError(t, db.Exec(tags).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(productTags).Error)
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func mustCreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:          uuid.New(),
		Name:        name,
		DisplayName: name,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func mustCreateTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func mustCreateProduct(t *testing.T, db *gorm.DB, name string, mrp float64, display bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		MRP:         mrp,
		SiteDisplay: display,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
