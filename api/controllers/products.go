package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopper-backend/api/responses"
	"github.com/angelmondragon/shopper-backend/api/validators"
	"github.com/angelmondragon/shopper-backend/internal/products"
	"github.com/angelmondragon/shopper-backend/pkg/logger"
)

type createProductRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Status      string `json:"status" validate:"omitempty,max=32"`
	Sponsored   bool   `json:"sponsored"`
}

type storeProductsRequest struct {
	StoreIDs   []uuid.UUID `json:"store_ids" validate:"required,min=1"`
	ProductIDs []uuid.UUID `json:"product_ids" validate:"required,min=1"`
}

type storeProductsResponse struct {
	Created int64 `json:"created"`
}

// ProductCreate registers a product owned by the caller.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product service"))
			return
		}

		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), userID, products.CreateProductInput{
			Name:        validators.CleanName(body.Name),
			Description: validators.CleanText(body.Description),
			Status:      validators.CleanName(body.Status),
			Sponsored:   body.Sponsored,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// StoreProductsCreate links the caller's products to every listed store.
// Pairs that already exist are skipped and not counted.
func StoreProductsCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("product service"))
			return
		}

		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body storeProductsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateStoreProducts(r.Context(), userID, body.StoreIDs, body.ProductIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, storeProductsResponse{Created: created})
	}
}
