package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nithyasundar/bakehouse-backend/api/controllers"
	"github.com/nithyasundar/bakehouse-backend/api/middleware"
	"github.com/nithyasundar/bakehouse-backend/internal/auth"
	"github.com/nithyasundar/bakehouse-backend/internal/catalog"
	"github.com/nithyasundar/bakehouse-backend/internal/invoice"
	"github.com/nithyasundar/bakehouse-backend/internal/orders"
	"github.com/nithyasundar/bakehouse-backend/internal/settings"
	"github.com/nithyasundar/bakehouse-backend/internal/users"
	"github.com/nithyasundar/bakehouse-backend/internal/whatsapp"
	"github.com/nithyasundar/bakehouse-backend/pkg/auth/session"
	"github.com/nithyasundar/bakehouse-backend/pkg/config"
	"github.com/nithyasundar/bakehouse-backend/pkg/logger"
	"github.com/nithyasundar/bakehouse-backend/pkg/metrics"
	"github.com/nithyasundar/bakehouse-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Dependencies carries everything the router mounts. The API binary
// wires real services; router tests swap in stubs.
type Dependencies struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          *redis.Client
	SessionManager sessionManager
	Registry       *prometheus.Registry
	HTTPMetrics    *metrics.HTTPMetrics

	AuthService     auth.Service
	CatalogService  catalog.Service
	OrdersService   orders.Service
	UsersService    users.Service
	SettingsService settings.Service
	InvoiceRenderer *invoice.Renderer
	WhatsApp        *whatsapp.Builder
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}
	r.Use(middleware.CORS())

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Storefront surface, no session required.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.StorefrontListProducts(deps.CatalogService, logg))
		r.Get("/products/{productID}", controllers.GetProduct(deps.CatalogService, logg))
		r.Get("/categories", controllers.ListCategories(deps.CatalogService, logg))
		r.Get("/base-categories", controllers.ListBaseCategories(deps.CatalogService, logg))
		r.Get("/tags", controllers.ListTags(deps.CatalogService, logg))
		r.Post("/checkout", controllers.Checkout(deps.OrdersService, deps.WhatsApp, logg))

		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/auth/login", controllers.AuthLogin(deps.AuthService, logg))

		// Customer account view.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
			r.Get("/orders", controllers.MyOrders(deps.OrdersService, logg))
		})
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		}
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AdminAuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Get("/me", controllers.AuthMe(deps.UsersService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.CatalogService, logg))
			r.Post("/", controllers.CreateProduct(deps.CatalogService, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.CatalogService, logg))
			r.Patch("/{productID}", controllers.UpdateProduct(deps.CatalogService, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(deps.CatalogService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(deps.CatalogService, logg))
			r.Post("/", controllers.CreateCategory(deps.CatalogService, logg))
			r.Patch("/{categoryID}", controllers.UpdateCategory(deps.CatalogService, logg))
			r.Delete("/{categoryID}", controllers.DeleteCategory(deps.CatalogService, logg))
		})

		r.Route("/base-categories", func(r chi.Router) {
			r.Get("/", controllers.ListBaseCategories(deps.CatalogService, logg))
			r.Post("/", controllers.CreateBaseCategory(deps.CatalogService, logg))
			r.Delete("/{baseCategoryID}", controllers.DeleteBaseCategory(deps.CatalogService, logg))
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", controllers.ListTags(deps.CatalogService, logg))
			r.Post("/", controllers.CreateTag(deps.CatalogService, logg))
			r.Delete("/{tagID}", controllers.DeleteTag(deps.CatalogService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.OrdersService, logg))
			r.Get("/{orderID}", controllers.GetOrder(deps.OrdersService, logg))
			r.Patch("/{orderID}", controllers.UpdateOrder(deps.OrdersService, logg))
			r.Patch("/{orderID}/status", controllers.UpdateOrderStatus(deps.OrdersService, logg))
			r.Delete("/{orderID}", controllers.DeleteOrder(deps.OrdersService, logg))
			r.Get("/{orderID}/invoice", controllers.DownloadInvoice(deps.OrdersService, deps.SettingsService, deps.InvoiceRenderer, logg))
			r.Get("/{orderID}/whatsapp", controllers.OrderWhatsAppLink(deps.OrdersService, deps.WhatsApp, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.ListProfiles(deps.UsersService, logg))
			r.Get("/{userID}", controllers.GetProfile(deps.UsersService, logg))
			r.Patch("/{userID}", controllers.UpdateProfile(deps.UsersService, logg))
			r.Delete("/{userID}", controllers.DeleteProfile(deps.UsersService, logg))
		})

		r.Route("/settings/invoice", func(r chi.Router) {
			r.Get("/", controllers.GetInvoiceSettings(deps.SettingsService, logg))
			r.Put("/", controllers.UpsertInvoiceSettings(deps.SettingsService, logg))
		})
	})

	return r
}
