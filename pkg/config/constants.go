package config

const EnvPrefix = "SHOPPER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	AuthSchemeGoogle = "google"
	AuthSchemeDev    = "dev"
)

const (
	ProximityStrategyPostGIS = "postgis"
	ProximityStrategyScan    = "scan"
)

const (
	EnvAppEnv   = "SHOPPER_APP_ENV"
	EnvPort     = "SHOPPER_APP_PORT"
	EnvLogLevel = "SHOPPER_LOG_LEVEL"

	EnvDBDSN  = "SHOPPER_DB_DSN"
	EnvDBHost = "SHOPPER_DB_HOST"
	EnvDBUser = "SHOPPER_DB_USER"
	EnvDBName = "SHOPPER_DB_NAME"

	EnvRedisURL = "SHOPPER_REDIS_URL"

	EnvJWTSecret  = "SHOPPER_JWT_SECRET"
	EnvJWTIssuer  = "SHOPPER_JWT_ISSUER"
	EnvJWTExpMins = "SHOPPER_JWT_EXPIRATION_MINUTES"

	EnvAuthScheme     = "SHOPPER_AUTH_SCHEME"
	EnvGoogleClientID = "SHOPPER_GOOGLE_CLIENT_ID"

	EnvProximityStrategy = "SHOPPER_PROXIMITY_STRATEGY"
	EnvNearbyRadius      = "SHOPPER_NEARBY_RADIUS_METERS"

	EnvUseSQLite   = "SHOPPER_USE_SQLITE"
	EnvAutoMigrate = "SHOPPER_AUTO_MIGRATE"

	EnvPubSubEventsTopic = "SHOPPER_PUBSUB_EVENTS_TOPIC"
	EnvBigQueryDataset   = "SHOPPER_BIGQUERY_DATASET"

	EnvTrustedProxies = "SHOPPER_TRUSTED_PROXIES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
