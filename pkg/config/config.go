package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "GELV"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "GELV_DB_DSN"
	EnvDBHost = "GELV_DB_HOST"
	EnvDBUser = "GELV_DB_USER"
	EnvDBName = "GELV_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	SMTP         SMTPConfig
	Invoice      InvoiceConfig
	Storage      StorageConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GELV_APP_ENV" required:"true"`
	Port         string `envconfig:"GELV_APP_PORT" required:"true"`
	SiteName     string `envconfig:"GELV_SITE_NAME" default:"GELV"`
	LogLevel     string `envconfig:"GELV_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GELV_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GELV_DB_DSN"`
	Driver string `envconfig:"GELV_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GELV_DB_HOST"`
	LegacyPort     int    `envconfig:"GELV_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GELV_DB_USER"`
	LegacyPassword string `envconfig:"GELV_DB_PASSWORD"`
	LegacyName     string `envconfig:"GELV_DB_NAME"`
	LegacySSLMode  string `envconfig:"GELV_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GELV_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GELV_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GELV_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GELV_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GELV_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GELV_REDIS_ADDR"`
	Password     string        `envconfig:"GELV_REDIS_PASSWORD"`
	DB           int           `envconfig:"GELV_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GELV_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GELV_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GELV_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GELV_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GELV_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GELV_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GELV_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GELV_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type SMTPConfig struct {
	Host        string `envconfig:"GELV_SMTP_HOST"`
	Port        int    `envconfig:"GELV_SMTP_PORT" default:"587"`
	Username    string `envconfig:"GELV_SMTP_USERNAME"`
	Password    string `envconfig:"GELV_SMTP_PASSWORD"`
	DefaultFrom string `envconfig:"GELV_SMTP_FROM_EMAIL" default:"noreply@gelv.lv"`
}

type InvoiceConfig struct {
	TemplatePath string `envconfig:"GELV_INVOICE_TEMPLATE_PATH" default:"assets/xlsx/invoice.xlsx"`
	OutputDir    string `envconfig:"GELV_INVOICE_OUTPUT_DIR" default:"invoices"`
	Locale       string `envconfig:"GELV_INVOICE_LOCALE" default:"lv"`
}

type StorageConfig struct {
	IssueFilesDir string `envconfig:"GELV_ISSUE_FILES_DIR" default:"issues"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GELV_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GELV_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
