package config

// EnvPrefix is passed to envconfig; every field carries an explicit key so the
// prefix only matters for unnamed fields.
const EnvPrefix = "PAINEL"

const (
	AppEnvDev   = "dev"
	AppEnvProd  = "prod"
	AppEnvLocal = "local"
)

const (
	EnvAppEnv       = "PAINEL_APP_ENV"
	EnvPort         = "PAINEL_APP_PORT"
	EnvLogLevel     = "PAINEL_LOG_LEVEL"
	EnvTimezone     = "PAINEL_APP_TIMEZONE"
	EnvServiceKind  = "PAINEL_SERVICE_KIND"
	EnvDBDSN        = "PAINEL_DB_DSN"
	EnvDBDriver     = "PAINEL_DB_DRIVER"
	EnvDBHost       = "PAINEL_DB_HOST"
	EnvDBUser       = "PAINEL_DB_USER"
	EnvDBName       = "PAINEL_DB_NAME"
	EnvRedisURL     = "PAINEL_REDIS_URL"
	EnvJWTSecret    = "PAINEL_JWT_SECRET"
	EnvJWTIssuer    = "PAINEL_JWT_ISSUER"
	EnvJWTExpMins   = "PAINEL_JWT_EXPIRATION_MINUTES"
	EnvGCPProjectID = "PAINEL_GCP_PROJECT_ID"
	EnvOrdersTopic  = "PAINEL_PUBSUB_ORDERS_TOPIC"
	EnvAutoMigrate  = "PAINEL_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
