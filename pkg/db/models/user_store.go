package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStore records that a user tracks a store, under the user's own label.
type UserStore struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:user_stores_user_id_store_id_key,priority:1"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:user_stores_user_id_store_id_key,priority:2;index"`
	Name      string    `gorm:"column:name;type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserStore) TableName() string { return "user_stores" }
