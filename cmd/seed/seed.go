package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopper-backend/internal/products"
	"github.com/angelmondragon/shopper-backend/internal/stores"
	"github.com/angelmondragon/shopper-backend/internal/users"
	"github.com/angelmondragon/shopper-backend/pkg/geo"
)

// seedBearing lays stores out north-east of the origin.
const seedBearing = 45.0

type options struct {
	subject  string
	email    string
	lat      float64
	lng      float64
	stores   int
	spacing  float64
	products int
}

type seeder struct {
	users    users.Service
	stores   stores.Service
	products products.Service
}

type seedResult struct {
	userID     uuid.UUID
	storeIDs   []uuid.UUID
	productIDs []uuid.UUID
	links      int64
}

// seed creates the demo user, a line of stores walking north-east from the
// origin and a handful of products stocked by every store. Running it twice
// reuses the user but adds fresh stores and products.
func (s *seeder) seed(ctx context.Context, opts options) (*seedResult, error) {
	origin := geo.NewPoint(opts.lat, opts.lng)
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if opts.stores < 0 || opts.products < 0 {
		return nil, fmt.Errorf("store and product counts must not be negative")
	}

	user, err := s.users.FindOrCreateByExternalAuthID(ctx, opts.subject, opts.email)
	if err != nil {
		return nil, fmt.Errorf("creating demo user: %w", err)
	}
	result := &seedResult{userID: user.ID}

	for i := 0; i < opts.stores; i++ {
		location := offset(origin, float64(i)*opts.spacing)
		store, err := s.stores.CreateStore(ctx, stores.CreateStoreInput{
			OwnerUserID: user.ID,
			Name:        fmt.Sprintf("Demo Store %d", i+1),
			Location:    &location,
		})
		if err != nil {
			return nil, fmt.Errorf("creating store %d: %w", i+1, err)
		}
		result.storeIDs = append(result.storeIDs, store.ID)
	}

	for i := 0; i < opts.products; i++ {
		product, err := s.products.CreateProduct(ctx, user.ID, products.CreateProductInput{
			Name:        fmt.Sprintf("Demo Product %d", i+1),
			Description: "seeded for local development",
			Sponsored:   i == 0,
		})
		if err != nil {
			return nil, fmt.Errorf("creating product %d: %w", i+1, err)
		}
		result.productIDs = append(result.productIDs, product.ID)
	}

	if len(result.storeIDs) > 0 && len(result.productIDs) > 0 {
		result.links, err = s.products.CreateStoreProducts(ctx, user.ID, result.storeIDs, result.productIDs)
		if err != nil {
			return nil, fmt.Errorf("linking products: %w", err)
		}
	}
	return result, nil
}

// offset moves the point meters along seedBearing.
func offset(p geo.Point, meters float64) geo.Point {
	return geo.Destination(p, seedBearing, meters)
}
