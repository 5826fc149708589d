package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots the product at purchase time. Total is the
// rounded line total and is recomputed whenever price or quantity
// changes.
type OrderItem struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    *uuid.UUID `gorm:"column:product_id;type:uuid"`
	ProductName  string     `gorm:"column:product_name;not null"`
	ProductPrice float64    `gorm:"column:product_price;not null"`
	Quantity     int        `gorm:"column:quantity;not null"`
	Total        int        `gorm:"column:total;not null"`
	Weight       *float64   `gorm:"column:weight"`
	WeightUnit   *string    `gorm:"column:weight_unit"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
