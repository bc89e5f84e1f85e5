package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopper-backend/internal/events"
	"github.com/angelmondragon/shopper-backend/internal/proximity"
	"github.com/angelmondragon/shopper-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopper-backend/pkg/geo"
	"github.com/angelmondragon/shopper-backend/pkg/logger"
)

func TestOffsetMovesTheRequestedDistance(t *testing.T) {
	origin := geo.NewPoint(40.7128, -74.0060)
	for _, meters := range []float64{0, 25, 100, 1000} {
		got := geo.Distance(origin, offset(origin, meters))
		require.InDelta(t, meters, got, 1e-6, "offset %v", meters)
	}
}

func TestSeedCreatesTrackedStoresAndLinkedProducts(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)

	s, err := newSeeder(client, events.NewEmitter(nil, logger.Nop()))
	require.NoError(t, err)

	opts := options{
		subject:  "seed-user",
		email:    "seed@example.com",
		lat:      40.7128,
		lng:      -74.0060,
		stores:   3,
		spacing:  25,
		products: 2,
	}
	result, err := s.seed(ctx, opts)
	require.NoError(t, err)
	require.Len(t, result.storeIDs, 3)
	require.Len(t, result.productIDs, 2)
	require.EqualValues(t, 6, result.links)

	locator, err := proximity.NewLocator("scan", client)
	require.NoError(t, err)
	resolver, err := proximity.NewResolver(locator, nil, logger.Nop())
	require.NoError(t, err)

	ids, err := resolver.FindStoresWithinRadiusOfUser(ctx, result.userID, geo.NewPoint(opts.lat, opts.lng), 30)
	require.NoError(t, err)
	require.ElementsMatch(t, result.storeIDs[:2], ids)

	again, err := s.seed(ctx, opts)
	require.NoError(t, err)
	require.Equal(t, result.userID, again.userID, "demo user is reused")
}

func TestSeedRejectsInvalidOrigin(t *testing.T) {
	client := dbtest.Open(t)
	s, err := newSeeder(client, nil)
	require.NoError(t, err)

	_, err = s.seed(context.Background(), options{lat: 91, lng: 0, stores: 1})
	require.ErrorIs(t, err, geo.ErrInvalidLatitude)

	_, err = s.seed(context.Background(), options{lat: 0, lng: 0, stores: -1})
	require.Error(t, err)
}
