package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the second level of the two-level taxonomy. BaseCategoryID
// is a weak reference and is nulled when the base category goes away.
type Category struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string     `gorm:"column:name;not null;uniqueIndex"`
	DisplayName    string     `gorm:"column:display_name;not null"`
	BaseCategoryID *uuid.UUID `gorm:"column:base_category_id;type:uuid"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// BaseCategory is the top level of the taxonomy.
type BaseCategory struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	DisplayName string    `gorm:"column:display_name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (BaseCategory) TableName() string {
	return "base_categories"
}
