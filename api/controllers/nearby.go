package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopper-backend/api/responses"
	"github.com/angelmondragon/shopper-backend/api/validators"
	"github.com/angelmondragon/shopper-backend/internal/proximity"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/angelmondragon/shopper-backend/pkg/geo"
	"github.com/angelmondragon/shopper-backend/pkg/logger"
)

// ProximityResolver is the slice of the proximity resolver the handlers use.
type ProximityResolver interface {
	FindStoresWithinRadiusOfUser(ctx context.Context, userID uuid.UUID, location geo.Point, radiusMeters float64) ([]uuid.UUID, error)
	Nearby(ctx context.Context, q proximity.Query) ([]proximity.Match, error)
}

type nearbyIDsResponse struct {
	Stores []uuid.UUID `json:"stores"`
}

type nearbyMatchesResponse struct {
	Stores       []proximity.Match `json:"stores"`
	RadiusMeters float64           `json:"radius_meters"`
}

// Nearby lists the caller's tracked stores within the configured radius of
// the device location.
func Nearby(resolver ProximityResolver, radiusMeters float64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("proximity resolver"))
			return
		}

		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location, err := validators.ParseQueryPoint(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := resolver.FindStoresWithinRadiusOfUser(r.Context(), userID, location, radiusMeters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nearbyIDsResponse{Stores: ids})
	}
}

// StoresNearby lists every store within radius of a point, with distances.
// radius defaults to defaultRadius and may not exceed maxRadius.
func StoresNearby(resolver ProximityResolver, defaultRadius, maxRadius float64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("proximity resolver"))
			return
		}

		location, err := validators.ParseQueryPoint(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		radius, err := validators.ParseQueryFloat(r, "radius", false, defaultRadius)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if maxRadius > 0 && radius > maxRadius {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "radius exceeds maximum").
				WithDetails(map[string]any{"field": "radius", "max": maxRadius}))
			return
		}

		matches, err := resolver.Nearby(r.Context(), proximity.Query{Location: location, RadiusMeters: radius})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nearbyMatchesResponse{Stores: matches, RadiusMeters: radius})
	}
}
