package proximity

import (
	"fmt"

	"github.com/angelmondragon/shopper-backend/pkg/config"
	"github.com/angelmondragon/shopper-backend/pkg/db"
)

// NewLocator picks the locator named by strategy. SQLite has no PostGIS, so a
// SQLite client always gets the scan locator.
func NewLocator(strategy string, client *db.Client) (Locator, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if client.Dialect() == db.DialectSQLite {
		return NewScanLocator(client.DB()), nil
	}
	switch strategy {
	case config.ProximityStrategyPostGIS, "":
		return NewPostGISLocator(client.DB()), nil
	case config.ProximityStrategyScan:
		return NewScanLocator(client.DB()), nil
	default:
		return nil, fmt.Errorf("unknown proximity strategy %q", strategy)
	}
}
