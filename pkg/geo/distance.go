package geo

import (
	"math"

	"github.com/tidwall/geodesic"
)

// WGS-84 ellipsoid.
const (
	SemiMajorAxis = 6378137.0
	Flattening    = 1 / 298.257223563
)

// Distance returns the geodesic distance in meters on the WGS-84 ellipsoid.
func Distance(a, b Point) float64 {
	if sameLocation(a, b) {
		return 0
	}
	var meters float64
	geodesic.WGS84.Inverse(a.Lat, a.Lng, b.Lat, b.Lng, &meters, nil, nil)
	return meters
}

// Destination returns the point reached by travelling meters from p along the
// given initial bearing in degrees clockwise from north.
func Destination(p Point, bearing, meters float64) Point {
	var lat, lng float64
	geodesic.WGS84.Direct(p.Lat, p.Lng, bearing, meters, &lat, &lng, nil)
	return NewPoint(lat, math.Remainder(lng, 360))
}

// sameLocation treats -180 and 180 as one meridian and every longitude at a
// pole as the same place.
func sameLocation(a, b Point) bool {
	if a.Lat != b.Lat {
		return false
	}
	return a.AtPole() || math.Remainder(b.Lng-a.Lng, 360) == 0
}

// Within reports whether b lies within radius meters of a, inclusive.
func Within(a, b Point, radius float64) bool {
	return Distance(a, b) <= radius
}
