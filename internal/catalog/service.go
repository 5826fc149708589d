package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nithyasundar/bakehouse-backend/pkg/db/models"
	"github.com/nithyasundar/bakehouse-backend/pkg/db/types"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProductDetail bundles a product with its resolved tag set.
type ProductDetail struct {
	Product models.Product
	Tags    []models.Tag
}

// Service defines catalog operations beyond repository reads.
type Service interface {
	ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListBaseCategories(ctx context.Context) ([]models.BaseCategory, error)
	CreateBaseCategory(ctx context.Context, input CategoryInput) (*models.BaseCategory, error)
	DeleteBaseCategory(ctx context.Context, id uuid.UUID) error

	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, name string) (*models.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	for i := range products {
		normalizePricing(&products[i])
	}
	return products, nil
}

// normalizePricing backfills selling_price from the legacy price column
// on rows migrated before the split, so storefront readers always see
// one price field.
func normalizePricing(p *models.Product) {
	if p.SellingPrice == nil {
		if effective := p.EffectiveSellingPrice(); effective > 0 {
			p.SellingPrice = &effective
		}
	}
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	tags, err := s.repo.FindTagsByProduct(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product tags")
	}
	normalizePricing(product)
	return &ProductDetail{Product: *product, Tags: tags}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if input.MRP <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mrp must be positive")
	}

	categoryID, categoryName, err := s.resolveCategory(ctx, input.CategoryID, input.CategoryName)
	if err != nil {
		return nil, err
	}

	baseWeight, weightUnit := normalizeWeight(input.BaseWeight, input.WeightUnit)

	product := &models.Product{
		ID:            uuid.New(),
		Name:          name,
		Description:   input.Description,
		Image:         input.Image,
		MRP:           input.MRP,
		SellingPrice:  input.SellingPrice,
		CategoryID:    categoryID,
		CategoryName:  categoryName,
		BaseWeight:    baseWeight,
		WeightUnit:    weightUnit,
		WeightOptions: normalizeWeightOptions(input.WeightOptions),
		SiteDisplay:   true,
	}
	if input.SiteDisplay != nil {
		product.SiteDisplay = *input.SiteDisplay
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}
		if len(input.TagIDs) > 0 {
			if err := s.validateTagIDs(ctx, repo, input.TagIDs); err != nil {
				return err
			}
			if err := repo.ReplaceProductTags(ctx, product.ID, input.TagIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach product tags")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}
	if input.MRP != nil {
		if *input.MRP <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "mrp must be positive")
		}
		updates["mrp"] = *input.MRP
	}
	if input.SellingPrice != nil {
		updates["selling_price"] = *input.SellingPrice
	}
	if input.CategoryID != nil || input.CategoryName != nil {
		categoryID, categoryName, err := s.resolveCategory(ctx, input.CategoryID, input.CategoryName)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = categoryID
		updates["category"] = categoryName
	}
	if input.BaseWeight != nil || input.WeightUnit != nil {
		baseWeight, weightUnit := normalizeWeight(input.BaseWeight, input.WeightUnit)
		if baseWeight != nil {
			updates["base_weight"] = *baseWeight
		}
		if weightUnit != nil {
			updates["weight_unit"] = *weightUnit
		}
	}
	if input.WeightOptions != nil {
		updates["weight_options"] = normalizeWeightOptions(*input.WeightOptions)
	}
	if input.SiteDisplay != nil {
		updates["site_display"] = *input.SiteDisplay
	}

	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindProductByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if len(updates) > 0 {
			if err := repo.UpdateProduct(ctx, id, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
			}
		}
		if input.TagIDs != nil {
			if err := s.validateTagIDs(ctx, repo, input.TagIDs); err != nil {
				return err
			}
			if err := repo.ReplaceProductTags(ctx, id, input.TagIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace product tags")
			}
		}
		reloaded, err := repo.FindProductByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindProductByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if err := repo.ReplaceProductTags(ctx, id, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach product tags")
		}
		if err := repo.DeleteProduct(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
		}
		return nil
	})
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = name
	}

	category := &models.Category{
		ID:             uuid.New(),
		Name:           name,
		DisplayName:    displayName,
		BaseCategoryID: input.BaseCategoryID,
	}
	if _, err := s.repo.CreateCategory(ctx, category); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if displayName := strings.TrimSpace(input.DisplayName); displayName != "" {
		updates["display_name"] = displayName
	}
	if input.BaseCategoryID != nil {
		updates["base_category_id"] = *input.BaseCategoryID
	}

	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
			if pkgerrors.IsDuplicateKey(err) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
		}
	}
	return s.repo.FindCategoryByID(ctx, id)
}

// DeleteCategory removes a category. Referencing products keep their
// denormalized name and lose only the category_id link.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindCategoryByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
		if err := tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlink products")
		}
		if err := repo.DeleteCategory(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
		}
		return nil
	})
}

func (s *service) ListBaseCategories(ctx context.Context) ([]models.BaseCategory, error) {
	bases, err := s.repo.ListBaseCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list base categories")
	}
	return bases, nil
}

func (s *service) CreateBaseCategory(ctx context.Context, input CategoryInput) (*models.BaseCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base category name required")
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = name
	}
	base := &models.BaseCategory{
		ID:          uuid.New(),
		Name:        name,
		DisplayName: displayName,
	}
	if _, err := s.repo.CreateBaseCategory(ctx, base); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "base category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create base category")
	}
	return base, nil
}

// DeleteBaseCategory removes a base category and nulls the weak
// references held by second-level categories.
func (s *service) DeleteBaseCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "base category id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := tx.WithContext(ctx).
			Model(&models.Category{}).
			Where("base_category_id = ?", id).
			Update("base_category_id", nil).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlink categories")
		}
		if err := repo.DeleteBaseCategory(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete base category")
		}
		return nil
	})
}

func (s *service) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tags")
	}
	return tags, nil
}

func (s *service) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tag name required")
	}
	tag := &models.Tag{ID: uuid.New(), Name: name}
	if _, err := s.repo.CreateTag(ctx, tag); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "tag name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tag")
	}
	return tag, nil
}

func (s *service) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tag id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := tx.WithContext(ctx).
			Where("tag_id = ?", id).
			Delete(&models.ProductTag{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach tag")
		}
		if err := repo.DeleteTag(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete tag")
		}
		return nil
	})
}

// resolveCategory accepts either an ID or a legacy name. An ID that no
// longer exists falls through to name resolution; an unresolvable name
// is kept as the denormalized string with no ID link.
func (s *service) resolveCategory(ctx context.Context, id *uuid.UUID, name *string) (*uuid.UUID, *string, error) {
	if id != nil && *id != uuid.Nil {
		category, err := s.repo.FindCategoryByID(ctx, *id)
		if err == nil {
			return &category.ID, &category.Name, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve category by id")
		}
	}
	if name != nil && strings.TrimSpace(*name) != "" {
		trimmed := strings.TrimSpace(*name)
		category, err := s.repo.FindCategoryByName(ctx, trimmed)
		if err == nil {
			return &category.ID, &category.Name, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve category by name")
		}
		return nil, &trimmed, nil
	}
	return nil, nil, nil
}

func (s *service) validateTagIDs(ctx context.Context, repo Repository, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := repo.FindTagByID(ctx, tagID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "unknown tag id "+tagID.String())
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tag")
		}
	}
	return nil
}

// normalizeWeight applies the piece rule: a piece-denominated product
// with no weight counts as one piece.
func normalizeWeight(weight *float64, unit *string) (*float64, *string) {
	if unit == nil {
		return weight, unit
	}
	if !types.IsPieceUnit(*unit) {
		return weight, unit
	}
	if weight == nil || *weight == 0 {
		one := 1.0
		return &one, unit
	}
	return weight, unit
}

func normalizeWeightOptions(options types.WeightOptions) types.WeightOptions {
	if len(options) == 0 {
		return options
	}
	out := make(types.WeightOptions, len(options))
	for i, opt := range options {
		if types.IsPieceUnit(opt.Unit) && opt.Weight == 0 {
			opt.Weight = 1
		}
		out[i] = opt
	}
	return out
}
