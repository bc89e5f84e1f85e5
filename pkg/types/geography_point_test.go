package types

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeographyPointValue(t *testing.T) {
	v, err := NewGeographyPoint(42.3601, -71.0589).Value()
	require.NoError(t, err)
	require.Equal(t, "SRID=4326;POINT(-71.0589 42.3601)", v)
}

func TestGeographyPointScanText(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "ewkt string", value: "SRID=4326;POINT(-71.0589 42.3601)"},
		{name: "wkt bytes", value: []byte("POINT(-71.0589 42.3601)")},
		{name: "wkt with spacing", value: "POINT (-71.0589 42.3601)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p GeographyPoint
			require.NoError(t, p.Scan(tt.value))
			require.InDelta(t, 42.3601, p.Lat, 1e-9)
			require.InDelta(t, -71.0589, p.Lng, 1e-9)
		})
	}
}

func TestGeographyPointScanHexEWKB(t *testing.T) {
	raw := make([]byte, 25)
	raw[0] = 1
	binary.LittleEndian.PutUint32(raw[1:5], wkbPointType|ewkbSRIDFlag)
	binary.LittleEndian.PutUint32(raw[5:9], 4326)
	binary.LittleEndian.PutUint64(raw[9:17], math.Float64bits(-72.5199))
	binary.LittleEndian.PutUint64(raw[17:25], math.Float64bits(42.3732))

	var p GeographyPoint
	require.NoError(t, p.Scan(hex.EncodeToString(raw)))
	require.InDelta(t, 42.3732, p.Lat, 1e-12)
	require.InDelta(t, -72.5199, p.Lng, 1e-12)

	var fromBytes GeographyPoint
	require.NoError(t, fromBytes.Scan(raw))
	require.Equal(t, p, fromBytes)
}

func TestGeographyPointScanPlainWKB(t *testing.T) {
	raw := make([]byte, 21)
	raw[0] = 0
	binary.BigEndian.PutUint32(raw[1:5], wkbPointType)
	binary.BigEndian.PutUint64(raw[5:13], math.Float64bits(179.9999))
	binary.BigEndian.PutUint64(raw[13:21], math.Float64bits(-89.5))

	var p GeographyPoint
	require.NoError(t, p.Scan(raw))
	require.Equal(t, GeographyPoint{Lat: -89.5, Lng: 179.9999}, p)
}

func TestGeographyPointScanRejectsGarbage(t *testing.T) {
	var p GeographyPoint
	require.Error(t, p.Scan("LINESTRING(0 0, 1 1)"))
	require.Error(t, p.Scan("POINT(1)"))
	require.Error(t, p.Scan(42))
	require.NoError(t, p.Scan(nil))
	require.Equal(t, GeographyPoint{}, p)
}

func TestGeographyPointScanStoredEWKTText(t *testing.T) {
	stored, err := NewGeographyPoint(-33.8688, 151.2093).Value()
	require.NoError(t, err)

	var p GeographyPoint
	require.NoError(t, p.Scan([]byte(stored.(string))))
	require.Equal(t, NewGeographyPoint(-33.8688, 151.2093), p)
}
