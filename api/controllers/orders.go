package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nithyasundar/bakehouse-backend/api/responses"
	"github.com/nithyasundar/bakehouse-backend/api/validators"
	"github.com/nithyasundar/bakehouse-backend/internal/invoice"
	"github.com/nithyasundar/bakehouse-backend/internal/orders"
	"github.com/nithyasundar/bakehouse-backend/internal/settings"
	"github.com/nithyasundar/bakehouse-backend/internal/whatsapp"
	"github.com/nithyasundar/bakehouse-backend/pkg/db/models"
	"github.com/nithyasundar/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
	"github.com/nithyasundar/bakehouse-backend/pkg/logger"
)

// AdminListOrders serves the admin order list with optional status,
// text and date range filters.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		filters, err := orderFiltersFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// MyOrders lists the orders attached to the authenticated session,
// newest first. Storefront account view; guests have nothing here.
func MyOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := contextUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrdersByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetOrderreturns one order with its items.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateOrder applies an admin edit; when items are present the full
// set replaces the stored one and totals are recomputed.
func UpdateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateOrder(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateOrderStatus moves an order through its lifecycle.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload struct {
			Status string `json:"status" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := enums.OrderStatus(strings.ToLower(strings.TrimSpace(payload.Status)))
		if !status.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status"))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// DeleteOrder removes an order and its items.
func DeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOrder(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// DownloadInvoice renders the order invoice as a PDF attachment. The
// authenticated admin's invoice settings brand the document; missing
// settings fall back to the built-in header.
func DownloadInvoice(svc orders.Service, settingsSvc settings.Service, renderer *invoice.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || renderer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setting := invoiceSettings(r, settingsSvc, logg)

		ctx := logg.WithOrderID(r.Context(), order.ID.String())
		pdf, err := renderer.GeneratePDF(ctx, order, setting)
		if err != nil {
			logg.Error(ctx, "invoice render failed", err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteAttachment(w, invoice.Filename(order.CustomerName, order.ID), "application/pdf", pdf)
	}
}

// OrderWhatsAppLink returns the wa.me handoff URL for an order.
func OrderWhatsAppLink(svc orders.Service, builder *whatsapp.Builder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || builder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "whatsapp service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "order id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		link, err := builder.OrderLink(order)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		message, err := builder.OrderMessage(order)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"link":    link,
			"message": message,
		})
	}
}

// invoiceSettings loads the caller's branding, treating a missing row
// as no settings rather than a failure.
func invoiceSettings(r *http.Request, svc settings.Service, logg *logger.Logger) *models.InvoiceSetting {
	if svc == nil {
		return nil
	}
	userID, err := contextUserID(r)
	if err != nil {
		return nil
	}
	setting, err := svc.Get(r.Context(), userID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil
		}
		logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "invoice settings lookup failed, rendering unbranded")
		return nil
	}
	return setting
}

func orderFiltersFromQuery(r *http.Request) (orders.OrderFilters, error) {
	filters := orders.OrderFilters{
		Query: validators.SanitizeString(r.URL.Query().Get("q"), searchQueryMaxLen),
	}

	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
	if err != nil {
		return orders.OrderFilters{}, err
	}
	filters.Limit = limit

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status := enums.OrderStatus(strings.ToLower(raw))
		if !status.IsValid() {
			return orders.OrderFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		filters.Status = &status
	}

	from, err := parseQueryDate(r, "date_from")
	if err != nil {
		return orders.OrderFilters{}, err
	}
	filters.DateFrom = from

	to, err := parseQueryDate(r, "date_to")
	if err != nil {
		return orders.OrderFilters{}, err
	}
	if to != nil {
		// Date-only bounds are inclusive of the named day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		filters.DateTo = &end
	}
	return filters, nil
}

func parseQueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+key+", expected YYYY-MM-DD")
}

type updateOrderItemRequest struct {
	ProductID  *string  `json:"product_id,omitempty"`
	Name       string   `json:"name" validate:"required"`
	UnitPrice  float64  `json:"unit_price" validate:"gte=0"`
	Quantity   int      `json:"quantity" validate:"required,min=1"`
	Weight     *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	WeightUnit *string  `json:"weight_unit,omitempty"`
}

type updateOrderRequest struct {
	CustomerName      *string                  `json:"customer_name,omitempty"`
	CustomerPhone     *string                  `json:"customer_phone,omitempty"`
	CustomerEmail     *string                  `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerAddress   *string                  `json:"customer_address,omitempty"`
	ShippingCharges   *float64                 `json:"shipping_charges,omitempty" validate:"omitempty,gte=0"`
	DiscountAmount    *float64                 `json:"discount_amount,omitempty" validate:"omitempty,gte=0"`
	Status            *string                  `json:"status,omitempty"`
	ShipmentNumber    *string                  `json:"shipment_number,omitempty"`
	CustomOrderDate   *time.Time               `json:"custom_order_date,omitempty"`
	CustomInvoiceDate *time.Time               `json:"custom_invoice_date,omitempty"`
	DeliveryDate      *time.Time               `json:"delivery_date,omitempty"`
	Items             []updateOrderItemRequest `json:"items,omitempty"`
}

func (u updateOrderRequest) toInput() (orders.UpdateOrderInput, error) {
	input := orders.UpdateOrderInput{
		CustomerName:      u.CustomerName,
		CustomerPhone:     u.CustomerPhone,
		CustomerEmail:     u.CustomerEmail,
		CustomerAddress:   u.CustomerAddress,
		ShippingCharges:   u.ShippingCharges,
		DiscountAmount:    u.DiscountAmount,
		ShipmentNumber:    u.ShipmentNumber,
		CustomOrderDate:   u.CustomOrderDate,
		CustomInvoiceDate: u.CustomInvoiceDate,
		DeliveryDate:      u.DeliveryDate,
	}

	if u.Status != nil {
		status := enums.OrderStatus(strings.ToLower(strings.TrimSpace(*u.Status)))
		if !status.IsValid() {
			return orders.UpdateOrderInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		input.Status = &status
	}

	if u.Items != nil {
		items := make([]orders.UpdateOrderItemInput, 0, len(u.Items))
		for _, item := range u.Items {
			productID, err := optionalUUID(item.ProductID, "product id")
			if err != nil {
				return orders.UpdateOrderInput{}, err
			}
			items = append(items, orders.UpdateOrderItemInput{
				ProductID:  productID,
				Name:       strings.TrimSpace(item.Name),
				UnitPrice:  item.UnitPrice,
				Quantity:   item.Quantity,
				Weight:     item.Weight,
				WeightUnit: item.WeightUnit,
			})
		}
		input.Items = items
	}
	return input, nil
}
