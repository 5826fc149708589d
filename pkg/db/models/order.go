package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/pkg/enums"
)

// Order persists the derived monetary fields alongside their inputs.
// Total must always equal RoundPrice(Subtotal + ShippingCharges −
// DiscountAmount); the orders service recomputes it on every edit.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            *uuid.UUID        `gorm:"column:user_id;type:uuid"`
	CustomerName      string            `gorm:"column:customer_name;not null"`
	CustomerPhone     string            `gorm:"column:customer_phone;not null"`
	CustomerEmail     string            `gorm:"column:customer_email;not null"`
	CustomerAddress   string            `gorm:"column:customer_address;not null"`
	Subtotal          int               `gorm:"column:subtotal;not null"`
	ShippingCharges   float64           `gorm:"column:shipping_charges;not null;default:0"`
	DiscountAmount    float64           `gorm:"column:discount_amount;not null;default:0"`
	Total             int               `gorm:"column:total;not null"`
	Status            enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	ShipmentNumber    *string           `gorm:"column:shipment_number"`
	CustomOrderDate   *time.Time        `gorm:"column:custom_order_date;type:date"`
	CustomInvoiceDate *time.Time        `gorm:"column:custom_invoice_date;type:date"`
	DeliveryDate      *time.Time        `gorm:"column:delivery_date;type:date"`
	Items             []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
