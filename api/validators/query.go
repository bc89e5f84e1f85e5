package validators

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/angelmondragon/shopper-backend/pkg/geo"
	"github.com/google/uuid"
)

// ParseQueryFloat reads a finite float query parameter. required controls
// whether an absent value is an error or yields defaultVal.
func ParseQueryFloat(r *http.Request, key string, required bool, defaultVal float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		if required {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": key})
		}
		return defaultVal, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseQueryPoint reads the lat and lon query parameters into a validated
// point. "lng" is accepted in place of "lon".
func ParseQueryPoint(r *http.Request) (geo.Point, error) {
	lat, err := ParseQueryFloat(r, "lat", true, 0)
	if err != nil {
		return geo.Point{}, err
	}
	lngKey := "lon"
	if r.URL.Query().Get(lngKey) == "" && r.URL.Query().Get("lng") != "" {
		lngKey = "lng"
	}
	lng, err := ParseQueryFloat(r, lngKey, true, 0)
	if err != nil {
		return geo.Point{}, err
	}
	p := geo.Point{Lat: lat, Lng: lng}
	if err := p.Validate(); err != nil {
		return geo.Point{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coordinates").WithDetails(map[string]any{"lat": lat, "lng": lng})
	}
	return p, nil
}

// ParseUUIDParam parses a path or query value as a uuid.
func ParseUUIDParam(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "must be a valid uuid").WithDetails(map[string]any{"field": field})
	}
	return id, nil
}
