package config

// EnvPrefix namespaces every environment variable consumed by the platform.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "SANTAI_DB_DSN"
	EnvDBHost = "SANTAI_DB_HOST"
	EnvDBUser = "SANTAI_DB_USER"
	EnvDBName = "SANTAI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
