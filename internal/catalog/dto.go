package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/pkg/db/types"
)

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	SiteDisplayOnly bool
	CategoryID      *uuid.UUID
	Query           string
}

// CreateProductInput carries the fields accepted when creating a product.
// Category may arrive as an ID or as a legacy name string; the service
// resolves whichever is present.
type CreateProductInput struct {
	Name          string
	Description   *string
	Image         *string
	MRP           float64
	SellingPrice  *float64
	CategoryID    *uuid.UUID
	CategoryName  *string
	BaseWeight    *float64
	WeightUnit    *string
	WeightOptions types.WeightOptions
	SiteDisplay   *bool
	TagIDs        []uuid.UUID
}

// UpdateProductInput carries partial updates. Nil pointers leave the
// column untouched; TagIDs nil leaves the tag set alone while an empty
// slice clears it.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Image         *string
	MRP           *float64
	SellingPrice  *float64
	CategoryID    *uuid.UUID
	CategoryName  *string
	BaseWeight    *float64
	WeightUnit    *string
	WeightOptions *types.WeightOptions
	SiteDisplay   *bool
	TagIDs        []uuid.UUID
}

// CategoryInput covers create and update for both category levels.
type CategoryInput struct {
	Name           string
	DisplayName    string
	BaseCategoryID *uuid.UUID
}

func lowered(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
