package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Ledger LedgerConfig
	Locale LocaleConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Ledger.validate(); err != nil {
		return nil, err
	}
	if cfg.Ledger.UsesDatabase() {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TILLPOINT_APP_ENV" default:"dev"`
	Port         string `envconfig:"TILLPOINT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TILLPOINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TILLPOINT_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"TILLPOINT_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN       string `envconfig:"TILLPOINT_DB_DSN"`
	UseSQLite bool   `envconfig:"TILLPOINT_USE_SQLITE" default:"false"`
	// SQLitePath is the database file used when UseSQLite is set.
	SQLitePath string `envconfig:"TILLPOINT_SQLITE_PATH" default:"tillpoint.db"`

	Host     string `envconfig:"TILLPOINT_DB_HOST"`
	Port     int    `envconfig:"TILLPOINT_DB_PORT" default:"5432"`
	User     string `envconfig:"TILLPOINT_DB_USER"`
	Password string `envconfig:"TILLPOINT_DB_PASSWORD"`
	Name     string `envconfig:"TILLPOINT_DB_NAME"`
	SSLMode  string `envconfig:"TILLPOINT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TILLPOINT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"TILLPOINT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"TILLPOINT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TILLPOINT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type LedgerConfig struct {
	// Backend selects the sale ledger implementation: "sql" or "file".
	Backend string `envconfig:"TILLPOINT_LEDGER_BACKEND" default:"sql"`
	// FilePath holds the ledger document when the file backend is selected.
	FilePath string `envconfig:"TILLPOINT_LEDGER_FILE" default:"sales.json"`
}

func (l LedgerConfig) UsesDatabase() bool {
	return strings.EqualFold(l.Backend, LedgerBackendSQL)
}

func (l LedgerConfig) validate() error {
	switch strings.ToLower(l.Backend) {
	case LedgerBackendSQL, LedgerBackendFile:
		return nil
	}
	return fmt.Errorf("unknown ledger backend %q (expected %q or %q)", l.Backend, LedgerBackendSQL, LedgerBackendFile)
}

type LocaleConfig struct {
	Language string `envconfig:"TILLPOINT_LOCALE" default:"de-DE"`
	Currency string `envconfig:"TILLPOINT_CURRENCY" default:"EUR"`
}

func (db *DBConfig) ensureDSN() error {
	if db.UseSQLite || db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
