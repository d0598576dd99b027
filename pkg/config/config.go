package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "REVOA"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv    = "REVOA_APP_ENV"
	EnvPort      = "REVOA_APP_PORT"
	EnvDBDSN     = "REVOA_DB_DSN"
	EnvDBHost    = "REVOA_DB_HOST"
	EnvDBUser    = "REVOA_DB_USER"
	EnvDBName    = "REVOA_DB_NAME"
	EnvRedisURL  = "REVOA_REDIS_URL"
	EnvJWTSecret = "REVOA_JWT_SECRET"
	EnvJWTIssuer = "REVOA_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	Reports      ReportsConfig
	Patterns     PatternsConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"REVOA_APP_ENV" required:"true"`
	Port         string `envconfig:"REVOA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"REVOA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REVOA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"REVOA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"REVOA_DB_DSN"`
	Driver string `envconfig:"REVOA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"REVOA_DB_HOST"`
	LegacyPort     int    `envconfig:"REVOA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"REVOA_DB_USER"`
	LegacyPassword string `envconfig:"REVOA_DB_PASSWORD"`
	LegacyName     string `envconfig:"REVOA_DB_NAME"`
	LegacySSLMode  string `envconfig:"REVOA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"REVOA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REVOA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REVOA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REVOA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REVOA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"REVOA_REDIS_ADDR"`
	Password     string        `envconfig:"REVOA_REDIS_PASSWORD"`
	DB           int           `envconfig:"REVOA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REVOA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REVOA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REVOA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REVOA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REVOA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"REVOA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"REVOA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"REVOA_JWT_EXPIRATION_MINUTES" default:"60"`
}

type RateLimitConfig struct {
	ReportsWindow    time.Duration `envconfig:"REVOA_RATE_LIMIT_REPORTS_WINDOW" default:"1m"`
	ReportsUserLimit int           `envconfig:"REVOA_RATE_LIMIT_REPORTS_USER_LIMIT" default:"60"`
	ReportsIPLimit   int           `envconfig:"REVOA_RATE_LIMIT_REPORTS_IP_LIMIT" default:"120"`
}

// ReportsConfig carries the product-policy thresholds used by the aggregation layer.
// These encode policy, not math, so they stay overridable per environment.
type ReportsConfig struct {
	QueryBatchSize  int     `envconfig:"REVOA_REPORTS_QUERY_BATCH_SIZE" default:"100"`
	HighROAS        float64 `envconfig:"REVOA_REPORTS_HIGH_ROAS" default:"2.5"`
	MediumROAS      float64 `envconfig:"REVOA_REPORTS_MEDIUM_ROAS" default:"1.5"`
	FatigueCTRSlope float64 `envconfig:"REVOA_REPORTS_FATIGUE_CTR_SLOPE" default:"20"`
}

type PatternsConfig struct {
	MinBudgetDays      int `envconfig:"REVOA_PATTERNS_MIN_BUDGET_DAYS" default:"20"`
	MinCorrelationDays int `envconfig:"REVOA_PATTERNS_MIN_CORRELATION_DAYS" default:"14"`
}

type FeatureFlagsConfig struct {
	UseSQLite       bool `envconfig:"REVOA_USE_SQLITE" default:"false"`
	AutoMigrate     bool `envconfig:"REVOA_AUTO_MIGRATE" default:"false"`
	WarehouseExport bool `envconfig:"REVOA_WAREHOUSE_EXPORT" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"REVOA_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"REVOA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"REVOA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	PixelTopic        string `envconfig:"REVOA_PUBSUB_PIXEL_TOPIC" default:"revoa-pixel-events"`
	PixelSubscription string `envconfig:"REVOA_PUBSUB_PIXEL_SUBSCRIPTION"`
}

type BigQueryConfig struct {
	Dataset        string `envconfig:"REVOA_BIGQUERY_DATASET" default:"revoa"`
	AdMetricsTable string `envconfig:"REVOA_BIGQUERY_AD_METRICS_TABLE" default:"resolved_ad_metrics"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
