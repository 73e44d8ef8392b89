package config

const (
	EnvPrefix = "charges"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "CHARGES_APP_ENV"
	EnvPort     = "CHARGES_APP_PORT"
	EnvDBDSN    = "CHARGES_DB_DSN"
	EnvDBHost   = "CHARGES_DB_HOST"
	EnvDBUser   = "CHARGES_DB_USER"
	EnvDBName   = "CHARGES_DB_NAME"
	EnvRedisURL = "CHARGES_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
