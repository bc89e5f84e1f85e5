package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopper-backend/pkg/enums"
)

// Product is owned by exactly one user.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name        string              `gorm:"column:name;type:text;not null"`
	Description string              `gorm:"column:description;type:text;not null;default:''"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Status      enums.ProductStatus `gorm:"column:status;type:text;not null;default:'ACTIVE'"`
	Sponsored   bool                `gorm:"column:sponsored;not null;default:false"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
