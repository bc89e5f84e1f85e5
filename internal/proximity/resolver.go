package proximity

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/angelmondragon/shopper-backend/pkg/geo"
	"github.com/angelmondragon/shopper-backend/pkg/logger"
	"github.com/angelmondragon/shopper-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Resolver validates queries and delegates them to a Locator. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	locator Locator
	metrics *metrics.ProximityMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewResolver(locator Locator, m *metrics.ProximityMetrics, logg *logger.Logger) (*Resolver, error) {
	if locator == nil {
		return nil, fmt.Errorf("proximity locator required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Resolver{locator: locator, metrics: m, logg: logg, now: time.Now}, nil
}

// Strategy names the active locator.
func (r *Resolver) Strategy() string {
	return r.locator.Name()
}

// FindStoresWithinRadiusOfLocation returns every store within radiusMeters of
// location.
func (r *Resolver) FindStoresWithinRadiusOfLocation(ctx context.Context, location geo.Point, radiusMeters float64) ([]uuid.UUID, error) {
	matches, err := r.Nearby(ctx, Query{Location: location, RadiusMeters: radiusMeters})
	if err != nil {
		return nil, err
	}
	return StoreIDs(matches), nil
}

// FindStoresWithinRadiusOfUser is FindStoresWithinRadiusOfLocation limited to
// the stores userID tracks. Users without tracked stores, including unknown
// users, get an empty result.
func (r *Resolver) FindStoresWithinRadiusOfUser(ctx context.Context, userID uuid.UUID, location geo.Point, radiusMeters float64) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	matches, err := r.Nearby(ctx, Query{Location: location, RadiusMeters: radiusMeters, UserID: &userID})
	if err != nil {
		return nil, err
	}
	return StoreIDs(matches), nil
}

// Nearby validates q and runs it. Storage failures surface as DEPENDENCY_ERROR
// and are not retried.
func (r *Resolver) Nearby(ctx context.Context, q Query) ([]Match, error) {
	if err := q.Location.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location")
	}
	if err := geo.ValidateRadius(q.RadiusMeters); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid radius")
	}

	scope := string(q.Scope())
	strategy := r.locator.Name()
	ctx = r.logg.WithFields(ctx, map[string]any{
		"scope":         scope,
		"strategy":      strategy,
		"lat":           q.Location.Lat,
		"lng":           q.Location.Lng,
		"radius_meters": q.RadiusMeters,
	})

	start := r.now()
	matches, err := r.locator.Locate(ctx, q)
	elapsed := r.now().Sub(start)
	if err != nil {
		r.metrics.IncFailure(scope, strategy)
		r.logg.Error(ctx, "proximity query failed", err)
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "locate nearby stores")
	}
	if matches == nil {
		matches = []Match{}
	}

	r.metrics.ObserveQuery(scope, strategy, elapsed, len(matches))
	r.logg.Debug(r.logg.WithFields(ctx, map[string]any{
		"matches":     len(matches),
		"duration_ms": elapsed.Milliseconds(),
	}), "proximity query completed")
	return matches, nil
}
