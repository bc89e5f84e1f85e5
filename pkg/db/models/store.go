package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopper-backend/pkg/types"
)

// Store is a named point of interest. Latitude and longitude are the source of
// truth; Location mirrors them as a PostGIS geography for spatial indexing.
type Store struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Name            string               `gorm:"column:name;type:text;not null"`
	Latitude        float64              `gorm:"column:latitude;not null;index:stores_lat_lng_idx,priority:1"`
	Longitude       float64              `gorm:"column:longitude;not null;index:stores_lat_lng_idx,priority:2"`
	Location        types.GeographyPoint `gorm:"column:location;not null"`
	CreatedByUserID uuid.UUID            `gorm:"column:created_by_user_id;type:uuid;not null;index"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Store) TableName() string { return "stores" }

// BeforeSave keeps the geography column in step with the scalar coordinates.
func (s *Store) BeforeSave(*gorm.DB) error {
	s.Location = types.NewGeographyPoint(s.Latitude, s.Longitude)
	return nil
}
