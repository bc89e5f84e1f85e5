package catalog

import (
	"context"

	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListLinks returns store/product associations between the given sets.
func (r *Repository) ListLinks(ctx context.Context, storeIDs, productIDs []uuid.UUID) ([]models.StoreProduct, error) {
	var links []models.StoreProduct
	if len(storeIDs) == 0 || len(productIDs) == 0 {
		return links, nil
	}
	if err := r.db.WithContext(ctx).
		Where("store_id IN ? AND product_id IN ?", storeIDs, productIDs).
		Order("created_at, id").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
