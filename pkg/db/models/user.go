package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account keyed by the identity provider subject.
type User struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email          string    `gorm:"column:email;type:text;not null;default:''"`
	ExternalAuthID string    `gorm:"column:external_auth_id;type:text;not null;uniqueIndex:users_external_auth_id_key"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
