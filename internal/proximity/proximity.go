// Package proximity answers "which stores are within r meters of this point",
// optionally limited to the stores one user tracks. Distances are geodesic on
// the WGS-84 ellipsoid.
package proximity

import (
	"context"

	"github.com/angelmondragon/shopper-backend/pkg/geo"
	"github.com/google/uuid"
)

// Scope labels which kind of query ran.
type Scope string

const (
	ScopeLocation Scope = "location"
	ScopeUser     Scope = "user"
)

// Query describes one range search. A nil UserID searches all stores.
type Query struct {
	Location     geo.Point
	RadiusMeters float64
	UserID       *uuid.UUID
}

func (q Query) Scope() Scope {
	if q.UserID != nil {
		return ScopeUser
	}
	return ScopeLocation
}

// Match is a store inside the radius and its distance from the query point.
type Match struct {
	StoreID        uuid.UUID `json:"id"`
	DistanceMeters float64   `json:"distance_meters"`
}

// Locator runs a validated query against storage. Results are ordered by
// ascending distance, ties broken by store id, with no duplicate ids.
type Locator interface {
	Name() string
	Locate(ctx context.Context, q Query) ([]Match, error)
}

// StoreIDs projects matches onto their ids, preserving order.
func StoreIDs(matches []Match) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.StoreID)
	}
	return ids
}
