package geo

import "math"

// minRadiusOfCurvature is the WGS-84 meridional radius at the equator, the
// smallest radius of curvature on the ellipsoid. Dividing by it over-estimates
// the angular extent of any surface distance.
const minRadiusOfCurvature = SemiMajorAxis * (1 - Flattening) * (1 - Flattening)

// bboxPadding widens the box to absorb the spherical approximation used for
// the longitude extent.
const bboxPadding = 1.01

// LngRange is an inclusive longitude interval that never wraps.
type LngRange struct {
	Min float64
	Max float64
}

// BoundingBox is a conservative superset of the points within a radius of a
// center. Longitude extent is expressed as one or two ranges so a box crossing
// the antimeridian splits cleanly.
type BoundingBox struct {
	MinLat    float64
	MaxLat    float64
	LngRanges []LngRange
}

// Contains reports whether p falls inside the box.
func (b BoundingBox) Contains(p Point) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	for _, r := range b.LngRanges {
		if p.Lng >= r.Min && p.Lng <= r.Max {
			return true
		}
	}
	return false
}

// FullLongitude reports whether the box spans every meridian.
func (b BoundingBox) FullLongitude() bool {
	return len(b.LngRanges) == 1 && b.LngRanges[0].Min <= -180 && b.LngRanges[0].Max >= 180
}

// BoundingBoxFor returns a box guaranteed to contain every point whose geodesic
// distance from center is at most radius meters.
func BoundingBoxFor(center Point, radius float64) BoundingBox {
	delta := radius / minRadiusOfCurvature * bboxPadding
	deltaDeg := toDegrees(delta)

	minLat := center.Lat - deltaDeg
	maxLat := center.Lat + deltaDeg
	full := []LngRange{{Min: -180, Max: 180}}

	if delta >= math.Pi/2 || minLat <= -90 || maxLat >= 90 {
		// The circle reaches a pole, so every longitude is in play.
		return BoundingBox{
			MinLat:    math.Max(minLat, -90),
			MaxLat:    math.Min(maxLat, 90),
			LngRanges: full,
		}
	}

	latRad := toRadians(center.Lat)
	ratio := math.Sin(delta) / math.Cos(latRad)
	if ratio >= 1 {
		return BoundingBox{MinLat: minLat, MaxLat: maxLat, LngRanges: full}
	}
	dLng := toDegrees(math.Asin(ratio))

	minLng := center.Lng - dLng
	maxLng := center.Lng + dLng

	switch {
	case maxLng-minLng >= 360:
		return BoundingBox{MinLat: minLat, MaxLat: maxLat, LngRanges: full}
	case minLng < -180:
		return BoundingBox{
			MinLat: minLat,
			MaxLat: maxLat,
			LngRanges: []LngRange{
				{Min: minLng + 360, Max: 180},
				{Min: -180, Max: maxLng},
			},
		}
	case maxLng > 180:
		return BoundingBox{
			MinLat: minLat,
			MaxLat: maxLat,
			LngRanges: []LngRange{
				{Min: minLng, Max: 180},
				{Min: -180, Max: maxLng - 360},
			},
		}
	default:
		return BoundingBox{
			MinLat:    minLat,
			MaxLat:    maxLat,
			LngRanges: []LngRange{{Min: minLng, Max: maxLng}},
		}
	}
}
