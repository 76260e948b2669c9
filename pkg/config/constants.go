package config

const EnvPrefix = "TILLPOINT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	LedgerBackendSQL  = "sql"
	LedgerBackendFile = "file"
)

const (
	EnvAppEnv        = "TILLPOINT_APP_ENV"
	EnvPort          = "TILLPOINT_APP_PORT"
	EnvDBDSN         = "TILLPOINT_DB_DSN"
	EnvDBHost        = "TILLPOINT_DB_HOST"
	EnvDBUser        = "TILLPOINT_DB_USER"
	EnvDBName        = "TILLPOINT_DB_NAME"
	EnvUseSQLite     = "TILLPOINT_USE_SQLITE"
	EnvLedgerBackend = "TILLPOINT_LEDGER_BACKEND"
	EnvLedgerFile    = "TILLPOINT_LEDGER_FILE"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
