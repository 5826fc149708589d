package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/pkg/db/types"
)

// Product is a catalog entry. Category is referenced two ways for
// historical reasons: CategoryID on newer rows, the denormalized
// CategoryName string on rows migrated from the first schema.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Description   *string             `gorm:"column:description"`
	Image         *string             `gorm:"column:image"`
	MRP           float64             `gorm:"column:mrp;not null"`
	SellingPrice  *float64            `gorm:"column:selling_price"`
	Price         *float64            `gorm:"column:price"`
	CategoryID    *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	CategoryName  *string             `gorm:"column:category"`
	BaseWeight    *float64            `gorm:"column:base_weight"`
	WeightUnit    *string             `gorm:"column:weight_unit"`
	WeightOptions types.WeightOptions `gorm:"column:weight_options;type:jsonb"`
	SiteDisplay   bool                `gorm:"column:site_display;not null;default:true"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveSellingPrice falls back to the legacy flat price column for
// rows migrated before selling_price existed.
func (p Product) EffectiveSellingPrice() float64 {
	if p.SellingPrice != nil {
		return *p.SellingPrice
	}
	if p.Price != nil {
		return *p.Price
	}
	return 0
}
