package instance

import "github.com/angelmondragon/shopper-backend/pkg/env"

// GetID returns the process instance identifier used in log fields. Heroku's
// DYNO is honoured when no explicit id is configured.
func GetID() string {
	if id, ok := env.Lookup("SHOPPER_INSTANCE_ID", "DYNO"); ok {
		return id
	}
	return "local"
}
