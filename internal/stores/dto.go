package stores

import (
	"time"

	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	"github.com/angelmondragon/shopper-backend/pkg/geo"
	"github.com/google/uuid"
)

// StoreDTO is the public view of a store.
type StoreDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	CreatedByUserID uuid.UUID `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// TrackedStoreDTO is a store as seen by one user, under that user's label.
type TrackedStoreDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Label string    `json:"label"`
	Lat   float64   `json:"lat"`
	Lng   float64   `json:"lng"`
}

// UserStoreDTO describes a tracking association.
type UserStoreDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	StoreID   uuid.UUID `json:"store_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStoreInput carries either explicit coordinates or a Google place id.
type CreateStoreInput struct {
	OwnerUserID uuid.UUID
	Name        string
	Location    *geo.Point
	PlaceID     string
}

// TrackedStoreRow is the flat result of joining user_stores to stores.
type TrackedStoreRow struct {
	ID        uuid.UUID
	Name      string
	Latitude  float64
	Longitude float64
	Label     string
}

func FromModel(s *models.Store) *StoreDTO {
	if s == nil {
		return nil
	}
	return &StoreDTO{
		ID:              s.ID,
		Name:            s.Name,
		Lat:             s.Latitude,
		Lng:             s.Longitude,
		CreatedByUserID: s.CreatedByUserID,
		CreatedAt:       s.CreatedAt,
	}
}

func FromUserStoreModel(m *models.UserStore) *UserStoreDTO {
	if m == nil {
		return nil
	}
	return &UserStoreDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		StoreID:   m.StoreID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

func fromTrackedRow(r TrackedStoreRow) TrackedStoreDTO {
	return TrackedStoreDTO{
		ID:    r.ID,
		Name:  r.Name,
		Label: r.Label,
		Lat:   r.Latitude,
		Lng:   r.Longitude,
	}
}
