package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryListProducts_siteDisplayFilter(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	mustCreateProduct(t, db, "Sourdough Loaf", 120, true)
	mustCreateProduct(t, db, "Staff Special", 80, false)

	all, err := repo.ListProducts(context.Background(), ProductFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	visible, err := repo.ListProducts(context.Background(), ProductFilters{SiteDisplayOnly: true})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Sourdough Loaf", visible[0].Name)
}

func TestRepositoryListProducts_categoryAndQuery(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	breads := mustCreateCategory(t, db, "breads")
	cakes := mustCreateCategory(t, db, "cakes")

	loaf := mustCreateProduct(t, db, "Multigrain Loaf", 140, true)
	require.NoError(t, db.Model(loaf).Update("category_id", breads.ID).Error)
	gateau := mustCreateProduct(t, db, "Chocolate Gateau", 650, true)
	require.NoError(t, db.Model(gateau).Update("category_id", cakes.ID).Error)

	byCategory, err := repo.ListProducts(context.Background(), ProductFilters{CategoryID: &breads.ID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Multigrain Loaf", byCategory[0].Name)

	byQuery, err := repo.ListProducts(context.Background(), ProductFilters{Query: "chocolate"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Chocolate Gateau", byQuery[0].Name)
}

func TestRepositoryFindCategoryByName_caseInsensitive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	created := mustCreateCategory(t, db, "Breads")

	found, err := repo.FindCategoryByName(context.Background(), "  bReAdS ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestRepositoryReplaceProductTags(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, "Cinnamon Roll", 60, true)
	eggless := mustCreateTag(t, db, "eggless")
	bestseller := mustCreateTag(t, db, "bestseller")
	seasonal := mustCreateTag(t, db, "seasonal")

	require.NoError(t, repo.ReplaceProductTags(ctx, product.ID, []uuid.UUID{eggless.ID, bestseller.ID}))

	tags, err := repo.FindTagsByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	require.NoError(t, repo.ReplaceProductTags(ctx, product.ID, []uuid.UUID{seasonal.ID}))

	tags, err = repo.FindTagsByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "seasonal", tags[0].Name)

	require.NoError(t, repo.ReplaceProductTags(ctx, product.ID, nil))
	tags, err = repo.FindTagsByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}
