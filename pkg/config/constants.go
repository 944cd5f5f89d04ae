package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "FEASTLY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FEASTLY_DB_DSN"
	EnvDBHost = "FEASTLY_DB_HOST"
	EnvDBUser = "FEASTLY_DB_USER"
	EnvDBName = "FEASTLY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
