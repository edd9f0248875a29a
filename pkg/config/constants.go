package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "BIZCOCHITO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BIZCOCHITO_DB_DSN"
	EnvDBHost = "BIZCOCHITO_DB_HOST"
	EnvDBUser = "BIZCOCHITO_DB_USER"
	EnvDBName = "BIZCOCHITO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
