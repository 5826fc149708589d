package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceSetting carries the business header printed on invoices,
// one row per admin user.
type InvoiceSetting struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BusinessName     string    `gorm:"column:business_name;not null"`
	BusinessSubtitle string    `gorm:"column:business_subtitle"`
	Phone            string    `gorm:"column:phone"`
	Email            string    `gorm:"column:email"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (InvoiceSetting) TableName() string {
	return "invoice_settings"
}
