package config

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Auth          AuthConfig
	AuthRateLimit AuthRateLimitConfig
	Proximity     ProximityConfig
	FeatureFlags  FeatureFlagsConfig
	GoogleMaps    GoogleMapsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	BigQuery      BigQueryConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Auth.validate(cfg.App); err != nil {
		return nil, err
	}
	if err := cfg.Proximity.validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.HTTP.TrustedProxyPrefixes(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPPER_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPPER_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"SHOPPER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPPER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"SHOPPER_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SHOPPER_HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"SHOPPER_HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHOPPER_HTTP_SHUTDOWN_TIMEOUT" default:"20s"`
	CORSOrigins     []string      `envconfig:"SHOPPER_CORS_ORIGINS"`
	// TrustedProxies are the CIDRs or addresses allowed to report the client
	// address in forwarding headers. Empty means headers are ignored.
	TrustedProxies []string `envconfig:"SHOPPER_TRUSTED_PROXIES"`
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address is treated as a
// single-host prefix.
func (h HTTPConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(h.TrustedProxies))
	for _, raw := range h.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

type DBConfig struct {
	DSN string `envconfig:"SHOPPER_DB_DSN"`

	LegacyHost     string `envconfig:"SHOPPER_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPPER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPPER_DB_USER"`
	LegacyPassword string `envconfig:"SHOPPER_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPPER_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPPER_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"SHOPPER_SQLITE_PATH" default:"file:shopper.db?cache=shared"`

	MaxOpenConns    int           `envconfig:"SHOPPER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPPER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPPER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPPER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPPER_REDIS_URL"`
	Address      string        `envconfig:"SHOPPER_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPPER_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPPER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPPER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPPER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPPER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPPER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPPER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHOPPER_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHOPPER_JWT_ISSUER" default:"opportunistic-shopper"`
	ExpirationMinutes      int    `envconfig:"SHOPPER_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"SHOPPER_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// AuthConfig selects how sign-in credentials are verified.
type AuthConfig struct {
	Scheme         string `envconfig:"SHOPPER_AUTH_SCHEME" default:"google"`
	GoogleClientID string `envconfig:"SHOPPER_GOOGLE_CLIENT_ID"`
}

func (a AuthConfig) validate(app AppConfig) error {
	switch strings.ToLower(strings.TrimSpace(a.Scheme)) {
	case AuthSchemeGoogle:
		if strings.TrimSpace(a.GoogleClientID) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvGoogleClientID, EnvAuthScheme, AuthSchemeGoogle)
		}
	case AuthSchemeDev:
		if !app.IsDev() {
			return fmt.Errorf("%s=%s is only allowed when %s=%s", EnvAuthScheme, AuthSchemeDev, EnvAppEnv, AppEnvDev)
		}
	default:
		return fmt.Errorf("unknown auth scheme %q", a.Scheme)
	}
	return nil
}

// AuthRateLimitConfig throttles sign-in attempts per client address.
type AuthRateLimitConfig struct {
	SignInWindow  time.Duration `envconfig:"SHOPPER_AUTH_SIGNIN_WINDOW" default:"1m"`
	SignInIPLimit int           `envconfig:"SHOPPER_AUTH_SIGNIN_IP_LIMIT" default:"20"`
}

// ProximityConfig tunes the nearby-store lookups.
type ProximityConfig struct {
	Strategy           string        `envconfig:"SHOPPER_PROXIMITY_STRATEGY" default:"postgis"`
	NearbyRadiusMeters float64       `envconfig:"SHOPPER_NEARBY_RADIUS_METERS" default:"50"`
	MaxRadiusMeters    float64       `envconfig:"SHOPPER_MAX_RADIUS_METERS" default:"50000"`
	RateLimit          int           `envconfig:"SHOPPER_NEARBY_RATE_LIMIT" default:"60"`
	RateLimitWindow    time.Duration `envconfig:"SHOPPER_NEARBY_RATE_LIMIT_WINDOW" default:"1m"`
}

func (p ProximityConfig) validate() error {
	switch p.Strategy {
	case ProximityStrategyPostGIS, ProximityStrategyScan:
	default:
		return fmt.Errorf("unknown proximity strategy %q", p.Strategy)
	}
	if p.NearbyRadiusMeters < 0 {
		return fmt.Errorf("%s must not be negative", EnvNearbyRadius)
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPPER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPPER_AUTO_MIGRATE" default:"false"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"SHOPPER_GOOGLE_MAPS_API_KEY"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"SHOPPER_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	EventsTopic string `envconfig:"SHOPPER_PUBSUB_EVENTS_TOPIC"`
}

// Enabled reports whether domain events should be published.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.EventsTopic) != ""
}

// BigQueryConfig names the analytics sink for domain events. Leaving the dataset
// empty disables it.
type BigQueryConfig struct {
	Dataset     string `envconfig:"SHOPPER_BIGQUERY_DATASET"`
	EventsTable string `envconfig:"SHOPPER_BIGQUERY_EVENTS_TABLE" default:"marketplace_events"`
}

// Enabled reports whether events should be streamed into BigQuery.
func (b BigQueryConfig) Enabled() bool {
	return strings.TrimSpace(b.Dataset) != ""
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
