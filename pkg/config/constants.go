package config

// EnvPrefix namespaces every environment variable read by envconfig.
const EnvPrefix = "SOLENNE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "SOLENNE_APP_ENV"
	EnvDBDSN  = "SOLENNE_DB_DSN"
	EnvDBHost = "SOLENNE_DB_HOST"
	EnvDBUser = "SOLENNE_DB_USER"
	EnvDBName = "SOLENNE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
