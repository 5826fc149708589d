package controllers

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/internal/catalog"
	"github.com/nithyasundar/bakehouse-backend/internal/orders"
	"github.com/nithyasundar/bakehouse-backend/internal/settings"
	"github.com/nithyasundar/bakehouse-backend/internal/users"
	"github.com/nithyasundar/bakehouse-backend/pkg/db/models"
	"github.com/nithyasundar/bakehouse-backend/pkg/enums"
	"github.com/nithyasundar/bakehouse-backend/pkg/logger"
)

func testControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

// stubCatalogService implements catalog.Service with overridable hooks.
// Methods without a hook panic so tests fail loudly on unexpected calls.
type stubCatalogService struct {
	listProductsFn  func(ctx context.Context, filters catalog.ProductFilters) ([]models.Product, error)
	createProductFn func(ctx context.Context, input catalog.CreateProductInput) (*models.Product, error)
	deleteProductFn func(ctx context.Context, id uuid.UUID) error
}

func (s *stubCatalogService) ListProducts(ctx context.Context, filters catalog.ProductFilters) ([]models.Product, error) {
	if s.listProductsFn == nil {
		panic("unexpected ListProducts call")
	}
	return s.listProductsFn(ctx, filters)
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductDetail, error) {
	panic("unexpected GetProduct call")
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*models.Product, error) {
	if s.createProductFn == nil {
		panic("unexpected CreateProduct call")
	}
	return s.createProductFn(ctx, input)
}

func (s *stubCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input catalog.UpdateProductInput) (*models.Product, error) {
	panic("unexpected UpdateProduct call")
}

func (s *stubCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if s.deleteProductFn == nil {
		panic("unexpected DeleteProduct call")
	}
	return s.deleteProductFn(ctx, id)
}

func (s *stubCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	panic("unexpected ListCategories call")
}

func (s *stubCatalogService) CreateCategory(ctx context.Context, input catalog.CategoryInput) (*models.Category, error) {
	panic("unexpected CreateCategory call")
}

func (s *stubCatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input catalog.CategoryInput) (*models.Category, error) {
	panic("unexpected UpdateCategory call")
}

func (s *stubCatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	panic("unexpected DeleteCategory call")
}

func (s *stubCatalogService) ListBaseCategories(ctx context.Context) ([]models.BaseCategory, error) {
	panic("unexpected ListBaseCategories call")
}

func (s *stubCatalogService) CreateBaseCategory(ctx context.Context, input catalog.CategoryInput) (*models.BaseCategory, error) {
	panic("unexpected CreateBaseCategory call")
}

func (s *stubCatalogService) DeleteBaseCategory(ctx context.Context, id uuid.UUID) error {
	panic("unexpected DeleteBaseCategory call")
}

func (s *stubCatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	panic("unexpected ListTags call")
}

func (s *stubCatalogService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	panic("unexpected CreateTag call")
}

func (s *stubCatalogService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	panic("unexpected DeleteTag call")
}

// stubOrdersService implements orders.Service with overridable hooks.
type stubOrdersService struct {
	checkoutFn     func(ctx context.Context, input orders.CheckoutInput) (*models.Order, error)
	getOrderFn     func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	listOrdersFn   func(ctx context.Context, filters orders.OrderFilters) ([]models.Order, error)
	listByUserFn   func(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	deleteOrderFn  func(ctx context.Context, id uuid.UUID) error
}

func (s *stubOrdersService) Checkout(ctx context.Context, input orders.CheckoutInput) (*models.Order, error) {
	if s.checkoutFn == nil {
		panic("unexpected Checkout call")
	}
	return s.checkoutFn(ctx, input)
}

func (s *stubOrdersService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.getOrderFn == nil {
		panic("unexpected GetOrder call")
	}
	return s.getOrderFn(ctx, id)
}

func (s *stubOrdersService) ListOrders(ctx context.Context, filters orders.OrderFilters) ([]models.Order, error) {
	if s.listOrdersFn == nil {
		panic("unexpected ListOrders call")
	}
	return s.listOrdersFn(ctx, filters)
}

func (s *stubOrdersService) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if s.listByUserFn == nil {
		panic("unexpected ListOrdersByUser call")
	}
	return s.listByUserFn(ctx, userID)
}

func (s *stubOrdersService) UpdateOrder(ctx context.Context, id uuid.UUID, input orders.UpdateOrderInput) (*models.Order, error) {
	panic("unexpected UpdateOrder call")
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if s.updateStatusFn == nil {
		panic("unexpected UpdateStatus call")
	}
	return s.updateStatusFn(ctx, id, status)
}

func (s *stubOrdersService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if s.deleteOrderFn == nil {
		panic("unexpected DeleteOrder call")
	}
	return s.deleteOrderFn(ctx, id)
}

// stubUsersService implements users.Service with overridable hooks.
type stubUsersService struct {
	getProfileFn    func(ctx context.Context, userID uuid.UUID) (*users.View, error)
	deleteProfileFn func(ctx context.Context, userID uuid.UUID) error
}

func (s *stubUsersService) GetProfile(ctx context.Context, userID uuid.UUID) (*users.View, error) {
	if s.getProfileFn == nil {
		panic("unexpected GetProfile call")
	}
	return s.getProfileFn(ctx, userID)
}

func (s *stubUsersService) UpdateProfile(ctx context.Context, userID uuid.UUID, input users.UpdateProfileInput) (*users.View, error) {
	panic("unexpected UpdateProfile call")
}

func (s *stubUsersService) DeleteProfile(ctx context.Context, userID uuid.UUID) error {
	if s.deleteProfileFn == nil {
		panic("unexpected DeleteProfile call")
	}
	return s.deleteProfileFn(ctx, userID)
}

func (s *stubUsersService) ListProfiles(ctx context.Context) ([]users.View, error) {
	panic("unexpected ListProfiles call")
}

// stubSettingsService implements settings.Service with overridable hooks.
type stubSettingsService struct {
	getFn    func(ctx context.Context, userID uuid.UUID) (*models.InvoiceSetting, error)
	upsertFn func(ctx context.Context, userID uuid.UUID, input settings.UpsertInput) (*models.InvoiceSetting, error)
}

func (s *stubSettingsService) Get(ctx context.Context, userID uuid.UUID) (*models.InvoiceSetting, error) {
	if s.getFn == nil {
		panic("unexpected Get call")
	}
	return s.getFn(ctx, userID)
}

func (s *stubSettingsService) Upsert(ctx context.Context, userID uuid.UUID, input settings.UpsertInput) (*models.InvoiceSetting, error) {
	if s.upsertFn == nil {
		panic("unexpected Upsert call")
	}
	return s.upsertFn(ctx, userID, input)
}
