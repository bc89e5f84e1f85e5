package proximity

import (
	"bytes"
	"context"
	"sort"

	"github.com/angelmondragon/shopper-backend/pkg/config"
	"github.com/angelmondragon/shopper-backend/pkg/geo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScanLocator works on any SQL database. A conservative bounding box over the
// latitude/longitude columns narrows the candidates, then the exact ellipsoidal
// distance decides membership.
type ScanLocator struct {
	db *gorm.DB
}

func NewScanLocator(db *gorm.DB) *ScanLocator {
	return &ScanLocator{db: db}
}

func (l *ScanLocator) Name() string { return config.ProximityStrategyScan }

type candidateRow struct {
	ID        uuid.UUID `gorm:"column:id"`
	Latitude  float64   `gorm:"column:latitude"`
	Longitude float64   `gorm:"column:longitude"`
}

func (l *ScanLocator) Locate(ctx context.Context, q Query) ([]Match, error) {
	box := geo.BoundingBoxFor(q.Location, q.RadiusMeters)

	tx := l.db.WithContext(ctx).
		Table("stores").
		Select("stores.id, stores.latitude, stores.longitude").
		Where("stores.latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)

	if !box.FullLongitude() {
		lng := l.db.Where("stores.longitude BETWEEN ? AND ?", box.LngRanges[0].Min, box.LngRanges[0].Max)
		for _, r := range box.LngRanges[1:] {
			lng = lng.Or("stores.longitude BETWEEN ? AND ?", r.Min, r.Max)
		}
		tx = tx.Where(lng)
	}

	if q.UserID != nil {
		tx = tx.Joins("JOIN user_stores ON user_stores.store_id = stores.id").
			Where("user_stores.user_id = ?", *q.UserID)
	}

	var candidates []candidateRow
	if err := tx.Scan(&candidates).Error; err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		d := geo.Distance(q.Location, geo.NewPoint(c.Latitude, c.Longitude))
		if d <= q.RadiusMeters {
			matches = append(matches, Match{StoreID: c.ID, DistanceMeters: d})
		}
	}
	sortMatches(matches)
	return matches, nil
}

func sortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DistanceMeters != matches[j].DistanceMeters {
			return matches[i].DistanceMeters < matches[j].DistanceMeters
		}
		return bytes.Compare(matches[i].StoreID[:], matches[j].StoreID[:]) < 0
	})
}
