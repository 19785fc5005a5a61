package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	HTTP         HTTPConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Idempotency  IdempotencyConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.App.IsProd() && cfg.DB.IsSQLite() {
		return nil, fmt.Errorf("%s=sqlite is not allowed when %s=%s", EnvDBDriver, EnvAppEnv, AppEnvProd)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvTimezone, err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PAINEL_APP_ENV" required:"true"`
	Port         string `envconfig:"PAINEL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PAINEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PAINEL_LOG_WARN_STACK" default:"false"`
	// Timezone decides what "today" means for estimated delivery dates.
	Timezone string `envconfig:"PAINEL_APP_TIMEZONE" default:"America/Sao_Paulo"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, AppEnvLocal)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the configured business timezone, defaulting to UTC.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

type ServiceConfig struct {
	Kind string `envconfig:"PAINEL_SERVICE_KIND" default:"api"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"PAINEL_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"PAINEL_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"PAINEL_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	CORSOrigins     []string      `envconfig:"PAINEL_HTTP_CORS_ORIGINS"`
}

type DBConfig struct {
	DSN    string `envconfig:"PAINEL_DB_DSN"`
	Driver string `envconfig:"PAINEL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PAINEL_DB_HOST"`
	LegacyPort     int    `envconfig:"PAINEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PAINEL_DB_USER"`
	LegacyPassword string `envconfig:"PAINEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"PAINEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"PAINEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PAINEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PAINEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PAINEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PAINEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the local sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"PAINEL_REDIS_URL" required:"true"`
	Password     string        `envconfig:"PAINEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PAINEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PAINEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PAINEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PAINEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PAINEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PAINEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PAINEL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PAINEL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PAINEL_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PAINEL_AUTO_MIGRATE" default:"false"`
	Idempotency bool `envconfig:"PAINEL_FEATURE_IDEMPOTENCY" default:"true"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"PAINEL_IDEMPOTENCY_TTL" default:"24h"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"PAINEL_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"PAINEL_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"PAINEL_PUBSUB_ORDERS_TOPIC" default:"painel-order-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PAINEL_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PAINEL_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PAINEL_OUTBOX_MAX_ATTEMPTS" default:"10"`
	// MetricsAddr exposes the publisher's /metrics when set, e.g. ":9102".
	MetricsAddr string `envconfig:"PAINEL_OUTBOX_METRICS_ADDR"`
}

// PollInterval converts the configured poll interval to a duration.
func (o OutboxConfig) PollInterval() time.Duration {
	if o.PollIntervalMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(o.PollIntervalMS) * time.Millisecond
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:painel.db?_foreign_keys=on"
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
