package proximity

import (
	"context"

	"github.com/angelmondragon/shopper-backend/pkg/config"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Geography distances run on the spheroid and ST_DWithin is answered from the
// GiST index on stores.location.
const (
	postgisSelect = `SELECT s.id AS store_id,
       ST_Distance(s.location, ST_SetSRID(ST_MakePoint(@lng, @lat), 4326)::geography) AS distance_meters
FROM stores s`
	postgisUserJoin = `
JOIN user_stores us ON us.store_id = s.id`
	postgisWithin = `
WHERE ST_DWithin(s.location, ST_SetSRID(ST_MakePoint(@lng, @lat), 4326)::geography, @radius)`
	postgisUserFilter = `
  AND us.user_id = @user_id`
	postgisOrder = `
ORDER BY distance_meters, s.id`
)

// PostGISLocator pushes the range predicate into Postgres.
type PostGISLocator struct {
	db *gorm.DB
}

func NewPostGISLocator(db *gorm.DB) *PostGISLocator {
	return &PostGISLocator{db: db}
}

func (l *PostGISLocator) Name() string { return config.ProximityStrategyPostGIS }

type matchRow struct {
	StoreID        uuid.UUID `gorm:"column:store_id"`
	DistanceMeters float64   `gorm:"column:distance_meters"`
}

func (l *PostGISLocator) Locate(ctx context.Context, q Query) ([]Match, error) {
	sql, args := buildPostGISQuery(q)
	var rows []matchRow
	if err := l.db.WithContext(ctx).Raw(sql, args).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, Match{StoreID: row.StoreID, DistanceMeters: row.DistanceMeters})
	}
	return out, nil
}

func buildPostGISQuery(q Query) (string, map[string]any) {
	args := map[string]any{
		"lng":    q.Location.Lng,
		"lat":    q.Location.Lat,
		"radius": q.RadiusMeters,
	}
	sql := postgisSelect
	if q.UserID != nil {
		sql += postgisUserJoin + postgisWithin + postgisUserFilter
		args["user_id"] = *q.UserID
	} else {
		sql += postgisWithin
	}
	return sql + postgisOrder, args
}
