package controllers

import (
	"net/http"

	"github.com/angelmondragon/shopper-backend/api/responses"
	"github.com/angelmondragon/shopper-backend/internal/catalog"
	"github.com/angelmondragon/shopper-backend/pkg/logger"
)

// CatalogAll returns the caller's stores and products, cross-linked.
func CatalogAll(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("catalog service"))
			return
		}

		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetCompleteStoreAndProductData(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
