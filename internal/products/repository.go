package products

import (
	"context"

	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists products and their store associations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateWithTx(tx *gorm.DB, product *models.Product) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Create(product).Error
}

// UserExistsWithTx reports whether the owning user exists.
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

// ListByUser returns every product owned by the user regardless of status.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDsWithTx loads the products matching ids inside tx.
func (r *Repository) FindByIDsWithTx(tx *gorm.DB, ids []uuid.UUID) ([]models.Product, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var products []models.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ExistingStoreIDsWithTx returns the subset of ids that name stores.
func (r *Repository) ExistingStoreIDsWithTx(tx *gorm.DB, ids []uuid.UUID) ([]uuid.UUID, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var found []uuid.UUID
	if err := tx.Model(&models.Store{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	return found, nil
}

// InsertStoreProductsWithTx inserts the associations, skipping pairs that
// already exist, and returns how many rows were created.
func (r *Repository) InsertStoreProductsWithTx(tx *gorm.DB, rows []models.StoreProduct) (int64, error) {
	if tx == nil {
		return 0, gorm.ErrInvalidTransaction
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
