package proximity

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/angelmondragon/shopper-backend/pkg/geo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockPostGIS(t *testing.T) (*PostGISLocator, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return NewPostGISLocator(conn), mock
}

func TestPostGISLocatorLocationQuery(t *testing.T) {
	locator, mock := newMockPostGIS(t)
	near, far := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("ST_DWithin(s.location, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5)")).
		WithArgs(36.09, 51.04, 36.09, 51.04, 5.0).
		WillReturnRows(sqlmock.NewRows([]string{"store_id", "distance_meters"}).
			AddRow(near.String(), 0.0).
			AddRow(far.String(), 4.2))

	matches, err := locator.Locate(context.Background(), Query{Location: geo.NewPoint(51.04, 36.09), RadiusMeters: 5})
	require.NoError(t, err)
	require.Equal(t, []Match{{StoreID: near, DistanceMeters: 0}, {StoreID: far, DistanceMeters: 4.2}}, matches)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostGISLocatorUserQueryJoinsTrackedStores(t *testing.T) {
	locator, mock := newMockPostGIS(t)
	userID := uuid.New()

	mock.ExpectQuery(`JOIN user_stores us ON us.store_id = s.id\s+WHERE ST_DWithin\(.+\)\s+AND us.user_id = \$6\s+ORDER BY distance_meters, s.id`).
		WithArgs(-0.1276, 51.5072, -0.1276, 51.5072, 50.0, userID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"store_id", "distance_meters"}))

	matches, err := locator.Locate(context.Background(), Query{Location: geo.NewPoint(51.5072, -0.1276), RadiusMeters: 50, UserID: &userID})
	require.NoError(t, err)
	require.Empty(t, matches)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostGISLocatorErrorSurfacesThroughResolver(t *testing.T) {
	locator, mock := newMockPostGIS(t)
	mock.ExpectQuery("ST_DWithin").WillReturnError(errors.New("connection reset by peer"))

	r, err := NewResolver(locator, nil, nil)
	require.NoError(t, err)

	_, err = r.FindStoresWithinRadiusOfLocation(context.Background(), geo.NewPoint(0, 0), 10)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestBuildPostGISQueryShape(t *testing.T) {
	sql, args := buildPostGISQuery(Query{Location: geo.NewPoint(1, 2), RadiusMeters: 3})
	require.NotContains(t, sql, "user_stores")
	require.Contains(t, sql, "ORDER BY distance_meters, s.id")
	require.Equal(t, map[string]any{"lng": 2.0, "lat": 1.0, "radius": 3.0}, args)
}
