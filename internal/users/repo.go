package users

import (
	"context"

	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByExternalAuthID retrieves the user bound to an identity provider subject.
func (r *Repository) FindByExternalAuthID(ctx context.Context, externalAuthID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("external_auth_id = ?", externalAuthID).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateEmail overwrites the stored email.
func (r *Repository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("email", email).Error
}
