package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/shopper-backend/api/responses"
	"github.com/angelmondragon/shopper-backend/api/validators"
	"github.com/angelmondragon/shopper-backend/internal/stores"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/angelmondragon/shopper-backend/pkg/geo"
	"github.com/angelmondragon/shopper-backend/pkg/logger"
)

type createStoreRequest struct {
	Name    string   `json:"name" validate:"required_without=PlaceID,omitempty,max=200"`
	Lat     *float64 `json:"lat" validate:"required_without=PlaceID,omitempty,gte=-90,lte=90"`
	Lon     *float64 `json:"lon" validate:"required_without=PlaceID,omitempty,gte=-180,lte=180"`
	PlaceID string   `json:"place_id" validate:"omitempty,max=512"`
}

type trackStoreRequest struct {
	Name string `json:"name" validate:"omitempty,max=200"`
}

// StoreCreate registers a store from coordinates or a Google place id and
// tracks it for the caller.
func StoreCreate(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("store service"))
			return
		}

		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createStoreRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := stores.CreateStoreInput{
			OwnerUserID: userID,
			Name:        validators.CleanName(body.Name),
			PlaceID:     validators.CleanName(body.PlaceID),
		}
		if body.Lat != nil && body.Lon != nil {
			p := geo.NewPoint(*body.Lat, *body.Lon)
			input.Location = &p
		} else if input.PlaceID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "lat and lon or place_id are required"))
			return
		}

		store, err := svc.CreateStore(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

// StoreGet returns one store by id.
func StoreGet(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("store service"))
			return
		}

		storeID, err := validators.ParseUUIDParam(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			r = r.WithContext(logg.WithStoreID(r.Context(), storeID.String()))
		}

		store, err := svc.GetByID(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, store)
	}
}

// StoreTrack adds an existing store to the caller's tracked stores.
func StoreTrack(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("store service"))
			return
		}

		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := validators.ParseUUIDParam(chi.URLParam(r, "storeId"), "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			r = r.WithContext(logg.WithStoreID(r.Context(), storeID.String()))
		}

		var body trackStoreRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		link, err := svc.TrackStore(r.Context(), userID, storeID, validators.CleanName(body.Name))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}
