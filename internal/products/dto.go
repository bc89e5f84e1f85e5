package products

import (
	"time"

	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	"github.com/angelmondragon/shopper-backend/pkg/enums"
	"github.com/google/uuid"
)

// ProductDTO is the public view of a product.
type ProductDTO struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	UserID      uuid.UUID           `json:"user_id"`
	Status      enums.ProductStatus `json:"status"`
	Sponsored   bool                `json:"sponsored"`
	CreatedAt   time.Time           `json:"created_at"`
}

// CreateProductInput is the caller supplied part of a new product. Status may
// be empty, in which case the default applies.
type CreateProductInput struct {
	Name        string
	Description string
	Status      string
	Sponsored   bool
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UserID:      p.UserID,
		Status:      p.Status,
		Sponsored:   p.Sponsored,
		CreatedAt:   p.CreatedAt,
	}
}
