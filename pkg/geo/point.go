package geo

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidLatitude  = errors.New("latitude must be a finite number between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be a finite number between -180 and 180")
	ErrInvalidRadius    = errors.New("radius must be a finite, non-negative number of meters")
)

// Point is a WGS-84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func NewPoint(lat, lng float64) Point {
	return Point{Lat: lat, Lng: lng}
}

// Validate checks the coordinate is finite and inside the WGS-84 range.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: got %v", ErrInvalidLatitude, p.Lat)
	}
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: got %v", ErrInvalidLongitude, p.Lng)
	}
	return nil
}

// ValidateRadius accepts zero, which matches only coincident points.
func ValidateRadius(meters float64) error {
	if math.IsNaN(meters) || math.IsInf(meters, 0) || meters < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidRadius, meters)
	}
	return nil
}

// AtPole reports whether the point sits on either pole, where every longitude
// names the same place.
func (p Point) AtPole() bool {
	return math.Abs(p.Lat) == 90
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.Lat, p.Lng)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
