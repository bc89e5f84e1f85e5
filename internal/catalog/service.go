package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/shopper-backend/internal/products"
	"github.com/angelmondragon/shopper-backend/internal/stores"
	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/google/uuid"
)

type storeLister interface {
	ListStoresForUser(ctx context.Context, userID uuid.UUID) ([]stores.TrackedStoreDTO, error)
}

type productLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]products.ProductDTO, error)
}

type linkRepository interface {
	ListLinks(ctx context.Context, storeIDs, productIDs []uuid.UUID) ([]models.StoreProduct, error)
}

type Service interface {
	GetCompleteStoreAndProductData(ctx context.Context, userID uuid.UUID) (*Catalog, error)
}

type service struct {
	stores   storeLister
	products productLister
	links    linkRepository
}

func NewService(storesSvc storeLister, productsSvc productLister, links linkRepository) (Service, error) {
	if storesSvc == nil || productsSvc == nil || links == nil {
		return nil, fmt.Errorf("catalog requires stores, products and links")
	}
	return &service{stores: storesSvc, products: productsSvc, links: links}, nil
}

// GetCompleteStoreAndProductData returns the caller's stores under their own
// labels and the caller's products, cross linked where an association exists.
func (s *service) GetCompleteStoreAndProductData(ctx context.Context, userID uuid.UUID) (*Catalog, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	tracked, err := s.stores.ListStoresForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	owned, err := s.products.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := empty()
	storeIDs := make([]uuid.UUID, 0, len(tracked))
	for _, st := range tracked {
		storeIDs = append(storeIDs, st.ID)
		out.Stores.IDs = append(out.Stores.IDs, st.ID)
		out.Stores.Data[st.ID] = StoreEntry{
			ID:       st.ID,
			Name:     st.Label,
			Lat:      st.Lat,
			Lng:      st.Lng,
			Products: []uuid.UUID{},
		}
	}
	productIDs := make([]uuid.UUID, 0, len(owned))
	for _, p := range owned {
		productIDs = append(productIDs, p.ID)
		out.Products.IDs = append(out.Products.IDs, p.ID)
		out.Products.Data[p.ID] = ProductEntry{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Status:      p.Status,
			Sponsored:   p.Sponsored,
			Stores:      []uuid.UUID{},
		}
	}

	links, err := s.links.ListLinks(ctx, storeIDs, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store products")
	}
	for _, link := range links {
		st, okStore := out.Stores.Data[link.StoreID]
		pr, okProduct := out.Products.Data[link.ProductID]
		if !okStore || !okProduct {
			continue
		}
		st.Products = append(st.Products, link.ProductID)
		pr.Stores = append(pr.Stores, link.StoreID)
		out.Stores.Data[link.StoreID] = st
		out.Products.Data[link.ProductID] = pr
	}
	return out, nil
}
