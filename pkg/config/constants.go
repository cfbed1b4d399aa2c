package config

const (
	EnvPrefix = "LOTARIA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EnvDBDSN        = "LOTARIA_DB_DSN"
	EnvDBSQLitePath = "LOTARIA_DB_SQLITE_PATH"
)
