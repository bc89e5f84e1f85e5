package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreProduct links a product to a store where it can be bought.
type StoreProduct struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:store_products_store_id_product_id_key,priority:1"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:store_products_store_id_product_id_key,priority:2;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (StoreProduct) TableName() string { return "store_products" }
