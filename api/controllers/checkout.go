package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/nithyasundar/bakehouse-backend/api/middleware"
	"github.com/nithyasundar/bakehouse-backend/api/responses"
	"github.com/nithyasundar/bakehouse-backend/api/validators"
	"github.com/nithyasundar/bakehouse-backend/internal/orders"
	"github.com/nithyasundar/bakehouse-backend/internal/whatsapp"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
	"github.com/nithyasundar/bakehouse-backend/pkg/logger"
)

type checkoutLineRequest struct {
	ProductID  *string  `json:"product_id,omitempty"`
	Name       string   `json:"name" validate:"required"`
	UnitPrice  float64  `json:"unit_price" validate:"gte=0"`
	Quantity   int      `json:"quantity" validate:"required,min=1"`
	Weight     *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	WeightUnit *string  `json:"weight_unit,omitempty"`
}

type checkoutRequest struct {
	CustomerName    string                `json:"customer_name" validate:"required"`
	CustomerPhone   string                `json:"customer_phone" validate:"required"`
	CustomerEmail   string                `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerAddress string                `json:"customer_address,omitempty"`
	Lines           []checkoutLineRequest `json:"lines" validate:"required,min=1,dive"`
	ShippingCharges float64               `json:"shipping_charges" validate:"gte=0"`
	DiscountPercent float64               `json:"discount_percent" validate:"gte=0,lte=100"`
	DeliveryDate    *string               `json:"delivery_date,omitempty"`
}

func optionalDate(raw *string, field string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field+", expected YYYY-MM-DD")
}

func (c checkoutRequest) toInput() (orders.CheckoutInput, error) {
	lines := make([]orders.CheckoutLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		productID, err := optionalUUID(line.ProductID, "product id")
		if err != nil {
			return orders.CheckoutInput{}, err
		}
		lines = append(lines, orders.CheckoutLine{
			ProductID:  productID,
			Name:       strings.TrimSpace(line.Name),
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			Weight:     line.Weight,
			WeightUnit: line.WeightUnit,
		})
	}

	deliveryDate, err := optionalDate(c.DeliveryDate, "delivery date")
	if err != nil {
		return orders.CheckoutInput{}, err
	}

	return orders.CheckoutInput{
		CustomerName:    strings.TrimSpace(c.CustomerName),
		CustomerPhone:   strings.TrimSpace(c.CustomerPhone),
		CustomerEmail:   strings.TrimSpace(c.CustomerEmail),
		CustomerAddress: strings.TrimSpace(c.CustomerAddress),
		Lines:           lines,
		ShippingCharges: c.ShippingCharges,
		DiscountPercent: c.DiscountPercent,
		DeliveryDate:    deliveryDate,
	}, nil
}

// Checkout places a storefront order. Works for guests; when a session
// is present the order is attached to it. The response carries the
// saved order plus the WhatsApp handoff link when a builder is wired.
func Checkout(svc orders.Service, builder *whatsapp.Builder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if userID, parseErr := contextUserID(r); parseErr == nil {
				input.UserID = &userID
			}
		}

		order, err := svc.Checkout(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		body := map[string]any{"order": order}
		if builder != nil {
			if link, linkErr := builder.OrderLink(order); linkErr == nil {
				body["whatsapp_link"] = link
			}
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, body)
	}
}
