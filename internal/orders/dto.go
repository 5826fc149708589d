package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/pkg/enums"
)

// OrderFilters describe the inputs supported by the admin order list.
// A zero Limit returns everything.
type OrderFilters struct {
	Status   *enums.OrderStatus
	Query    string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
}

// CheckoutLine is one purchased line as submitted by the storefront.
type CheckoutLine struct {
	ProductID  *uuid.UUID
	Name       string
	UnitPrice  float64
	Quantity   int
	Weight     *float64
	WeightUnit *string
}

// CheckoutInput carries everything needed to place an order. Discount
// arrives as a percentage of the subtotal at checkout time.
type CheckoutInput struct {
	UserID          *uuid.UUID
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	CustomerAddress string
	Lines           []CheckoutLine
	ShippingCharges float64
	DiscountPercent float64
	DeliveryDate    *time.Time
}

// UpdateOrderItemInput is one line in an admin edit. The full item set
// replaces the stored one; totals are recomputed from it.
type UpdateOrderItemInput struct {
	ProductID  *uuid.UUID
	Name       string
	UnitPrice  float64
	Quantity   int
	Weight     *float64
	WeightUnit *string
}

// UpdateOrderInput carries partial admin edits. Unlike checkout, the
// discount here is an absolute amount. Nil pointers leave fields
// untouched; a non-nil Items slice replaces the item set.
type UpdateOrderInput struct {
	CustomerName      *string
	CustomerPhone     *string
	CustomerEmail     *string
	CustomerAddress   *string
	ShippingCharges   *float64
	DiscountAmount    *float64
	Status            *enums.OrderStatus
	ShipmentNumber    *string
	CustomOrderDate   *time.Time
	CustomInvoiceDate *time.Time
	DeliveryDate      *time.Time
	Items             []UpdateOrderItemInput
}
