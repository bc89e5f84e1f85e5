package types

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	wkbPointType = 1
	ewkbSRIDFlag = 0x20000000
	ewkbZFlag    = 0x80000000
	ewkbMFlag    = 0x40000000
)

// GeographyPoint represents a PostGIS Point expressed in geography format.
type GeographyPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewGeographyPoint builds a point from latitude and longitude in degrees.
func NewGeographyPoint(lat, lng float64) GeographyPoint {
	return GeographyPoint{Lat: lat, Lng: lng}
}

// EWKT renders the point as an SRID 4326 extended WKT literal. PostGIS expects
// longitude first.
func (g GeographyPoint) EWKT() string {
	return fmt.Sprintf("SRID=4326;POINT(%s %s)", formatCoord(g.Lng), formatCoord(g.Lat))
}

// GormDataType names the logical column type.
func (GeographyPoint) GormDataType() string {
	return "geography"
}

// GormDBDataType maps the column to PostGIS geography on Postgres and to text
// elsewhere, where the EWKT literal is stored verbatim.
func (GeographyPoint) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "geography(Point,4326)"
	}
	return "text"
}

// Value produces an EWKT literal so Postgres can cast the geography.
func (g GeographyPoint) Value() (driver.Value, error) {
	return g.EWKT(), nil
}

// Scan accepts WKT/EWKT text, hex encoded (E)WKB, or raw (E)WKB bytes.
func (g *GeographyPoint) Scan(value interface{}) error {
	if value == nil {
		*g = GeographyPoint{}
		return nil
	}

	switch v := value.(type) {
	case string:
		return g.fromString(v)
	case []byte:
		text := strings.TrimSpace(string(v))
		if isTextual(text) {
			return g.fromString(text)
		}
		return g.fromWKB(v)
	default:
		if stringer, ok := value.(fmt.Stringer); ok {
			return g.fromString(stringer.String())
		}
		return fmt.Errorf("geography: unsupported scan type %T", value)
	}
}

func isTextual(text string) bool {
	upper := strings.ToUpper(text)
	if strings.HasPrefix(upper, "SRID=") || strings.HasPrefix(upper, "POINT") {
		return true
	}
	return isHex(text)
}

func isHex(text string) bool {
	if text == "" || len(text)%2 != 0 {
		return false
	}
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func (g *GeographyPoint) fromString(raw string) error {
	raw = strings.TrimSpace(raw)
	if isHex(raw) {
		decoded, err := hex.DecodeString(raw)
		if err != nil {
			return fmt.Errorf("geography: decode hex %w", err)
		}
		return g.fromWKB(decoded)
	}
	return g.fromText(raw)
}

func (g *GeographyPoint) fromText(raw string) error {
	if strings.HasPrefix(strings.ToUpper(raw), "SRID=") {
		if idx := strings.Index(raw, ";"); idx != -1 {
			raw = raw[idx+1:]
		}
	}

	raw = strings.TrimSpace(raw)
	upper := strings.ToUpper(raw)
	open := strings.Index(raw, "(")
	if !strings.HasPrefix(upper, "POINT") || open == -1 || !strings.HasSuffix(raw, ")") {
		return fmt.Errorf("geography: unsupported text %q", raw)
	}

	content := strings.TrimSpace(raw[open+1 : len(raw)-1])
	segments := strings.Fields(content)
	if len(segments) != 2 {
		return fmt.Errorf("geography: unexpected POINT content %q", content)
	}

	lng, err := parseCoord(segments[0])
	if err != nil {
		return err
	}
	lat, err := parseCoord(segments[1])
	if err != nil {
		return err
	}

	g.Lng = lng
	g.Lat = lat
	return nil
}

func (g *GeographyPoint) fromWKB(raw []byte) error {
	if len(raw) < 5 {
		return fmt.Errorf("geography: wkb too short")
	}

	var order binary.ByteOrder
	switch raw[0] {
	case 0:
		order = binary.BigEndian
	case 1:
		order = binary.LittleEndian
	default:
		return fmt.Errorf("geography: invalid byte order %d", raw[0])
	}

	geomType := order.Uint32(raw[1:5])
	offset := 5
	if geomType&ewkbSRIDFlag != 0 {
		offset += 4
	}
	if geomType&(ewkbZFlag|ewkbMFlag) != 0 {
		return fmt.Errorf("geography: only 2D points are supported")
	}
	if geomType&0xFFFF != wkbPointType {
		return fmt.Errorf("geography: unexpected geometry type %d", geomType&0xFFFF)
	}
	if len(raw) < offset+16 {
		return fmt.Errorf("geography: wkb too short")
	}

	g.Lng = math.Float64frombits(order.Uint64(raw[offset : offset+8]))
	g.Lat = math.Float64frombits(order.Uint64(raw[offset+8 : offset+16]))
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseCoord(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("geography: empty coordinate")
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("geography: parse coordinate %w", err)
	}
	return f, nil
}
