package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/api/responses"
	"github.com/nithyasundar/bakehouse-backend/api/validators"
	"github.com/nithyasundar/bakehouse-backend/internal/catalog"
	dbtypes "github.com/nithyasundar/bakehouse-backend/pkg/db/types"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
	"github.com/nithyasundar/bakehouse-backend/pkg/logger"
)

// StorefrontListProducts serves the public product list. Only rows
// flagged for site display are returned regardless of query params.
func StorefrontListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filters, err := productFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.SiteDisplayOnly = true

		products, err := svc.ListProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// AdminListProducts serves the admin product list, hidden rows included.
func AdminListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filters, err := productFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		visible, err := validators.ParseQueryBool(r, "site_display")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if visible != nil && *visible {
			filters.SiteDisplayOnly = true
		}

		products, err := svc.ListProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// GetProduct returns one product with its category and tags expanded.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// CreateProduct handles admin product creation.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct handles admin partial updates.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes a product and its tag links.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func productFiltersFromQuery(r *http.Request) (catalog.ProductFilters, error) {
	filters := catalog.ProductFilters{
		Query: validators.SanitizeString(r.URL.Query().Get("q"), searchQueryMaxLen),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category_id")); raw != "" {
		id, err := validators.ParsePathUUID(raw, "category id")
		if err != nil {
			return catalog.ProductFilters{}, err
		}
		filters.CategoryID = &id
	}
	return filters, nil
}

type weightOptionRequest struct {
	Weight       float64 `json:"weight" validate:"gte=0"`
	Unit         string  `json:"unit" validate:"required"`
	MRP          float64 `json:"mrp" validate:"gte=0"`
	SellingPrice float64 `json:"selling_price" validate:"gte=0"`
}

type productRequest struct {
	Name          string                `json:"name" validate:"required"`
	Description   *string               `json:"description,omitempty"`
	Image         *string               `json:"image,omitempty"`
	MRP           float64               `json:"mrp" validate:"required,gt=0"`
	SellingPrice  *float64              `json:"selling_price,omitempty" validate:"omitempty,gt=0"`
	CategoryID    *string               `json:"category_id,omitempty"`
	Category      *string               `json:"category,omitempty"`
	BaseWeight    *float64              `json:"base_weight,omitempty" validate:"omitempty,gt=0"`
	WeightUnit    *string               `json:"weight_unit,omitempty"`
	WeightOptions []weightOptionRequest `json:"weight_options,omitempty" validate:"omitempty,dive"`
	SiteDisplay   *bool                 `json:"site_display,omitempty"`
	TagIDs        []string              `json:"tag_ids,omitempty"`
}

type updateProductRequest struct {
	Name          *string               `json:"name,omitempty"`
	Description   *string               `json:"description,omitempty"`
	Image         *string               `json:"image,omitempty"`
	MRP           *float64              `json:"mrp,omitempty" validate:"omitempty,gt=0"`
	SellingPrice  *float64              `json:"selling_price,omitempty" validate:"omitempty,gt=0"`
	CategoryID    *string               `json:"category_id,omitempty"`
	Category      *string               `json:"category,omitempty"`
	BaseWeight    *float64              `json:"base_weight,omitempty" validate:"omitempty,gt=0"`
	WeightUnit    *string               `json:"weight_unit,omitempty"`
	WeightOptions []weightOptionRequest `json:"weight_options,omitempty" validate:"omitempty,dive"`
	SiteDisplay   *bool                 `json:"site_display,omitempty"`
	TagIDs        []string              `json:"tag_ids,omitempty"`
}

func (p productRequest) toCreateInput() (catalog.CreateProductInput, error) {
	categoryID, err := optionalUUID(p.CategoryID, "category id")
	if err != nil {
		return catalog.CreateProductInput{}, err
	}
	tagIDs, err := parseUUIDList(p.TagIDs, "tag id")
	if err != nil {
		return catalog.CreateProductInput{}, err
	}

	return catalog.CreateProductInput{
		Name:          strings.TrimSpace(p.Name),
		Description:   p.Description,
		Image:         p.Image,
		MRP:           p.MRP,
		SellingPrice:  p.SellingPrice,
		CategoryID:    categoryID,
		CategoryName:  p.Category,
		BaseWeight:    p.BaseWeight,
		WeightUnit:    p.WeightUnit,
		WeightOptions: toWeightOptions(p.WeightOptions),
		SiteDisplay:   p.SiteDisplay,
		TagIDs:        tagIDs,
	}, nil
}

func (p updateProductRequest) toUpdateInput() (catalog.UpdateProductInput, error) {
	categoryID, err := optionalUUID(p.CategoryID, "category id")
	if err != nil {
		return catalog.UpdateProductInput{}, err
	}

	input := catalog.UpdateProductInput{
		Name:         p.Name,
		Description:  p.Description,
		Image:        p.Image,
		MRP:          p.MRP,
		SellingPrice: p.SellingPrice,
		CategoryID:   categoryID,
		CategoryName: p.Category,
		BaseWeight:   p.BaseWeight,
		WeightUnit:   p.WeightUnit,
		SiteDisplay:  p.SiteDisplay,
	}

	if p.WeightOptions != nil {
		options := toWeightOptions(p.WeightOptions)
		input.WeightOptions = &options
	}

	// Nil leaves the tag set alone; an empty array clears it.
	if p.TagIDs != nil {
		tagIDs, err := parseUUIDList(p.TagIDs, "tag id")
		if err != nil {
			return catalog.UpdateProductInput{}, err
		}
		input.TagIDs = tagIDs
	}
	return input, nil
}

func toWeightOptions(reqs []weightOptionRequest) dbtypes.WeightOptions {
	if len(reqs) == 0 {
		return nil
	}
	options := make(dbtypes.WeightOptions, 0, len(reqs))
	for _, opt := range reqs {
		options = append(options, dbtypes.WeightOption{
			Weight:       opt.Weight,
			Unit:         opt.Unit,
			MRP:          opt.MRP,
			SellingPrice: opt.SellingPrice,
		})
	}
	return options
}

func optionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := validators.ParsePathUUID(*raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseUUIDList(values []string, field string) ([]uuid.UUID, error) {
	if values == nil {
		return nil, nil
	}
	result := make([]uuid.UUID, 0, len(values))
	for _, raw := range values {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		id, err := validators.ParsePathUUID(raw, field)
		if err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	return result, nil
}
