package stores

import (
	"context"
	"fmt"

	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx inserts the store and its creator's tracking row together.
func (r *Repository) CreateWithTx(tx *gorm.DB, store *models.Store, creatorLink *models.UserStore) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if store == nil {
		return fmt.Errorf("store is required")
	}
	if err := tx.Create(store).Error; err != nil {
		return err
	}
	if creatorLink == nil {
		return nil
	}
	return tx.Create(creatorLink).Error
}

// FindByID loads a store by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Omit("location").
		Where("id = ?", id).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// ListTrackedByUser returns the stores a user tracks, oldest association first.
func (r *Repository) ListTrackedByUser(ctx context.Context, userID uuid.UUID) ([]TrackedStoreRow, error) {
	var rows []TrackedStoreRow
	err := r.db.WithContext(ctx).
		Table("user_stores").
		Select("stores.id, stores.name, stores.latitude, stores.longitude, user_stores.name AS label").
		Joins("JOIN stores ON stores.id = user_stores.store_id").
		Where("user_stores.user_id = ?", userID).
		Order("user_stores.created_at, stores.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateUserStoreWithTx inserts a tracking association.
func (r *Repository) CreateUserStoreWithTx(tx *gorm.DB, link *models.UserStore) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(link).Error
}

// UserExistsWithTx reports whether a user row with id exists.
func (r *Repository) UserExistsWithTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	if tx == nil {
		return false, gorm.ErrInvalidTransaction
	}
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
