package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Cache        CacheConfig
	Orders       OrdersConfig
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
	Env          string `envconfig:"SOLENNE_APP_ENV" required:"true"`
	Port         string `envconfig:"SOLENNE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SOLENNE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SOLENNE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SOLENNE_DB_DSN"`
	Driver string `envconfig:"SOLENNE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SOLENNE_DB_HOST"`
	LegacyPort     int    `envconfig:"SOLENNE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SOLENNE_DB_USER"`
	LegacyPassword string `envconfig:"SOLENNE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SOLENNE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SOLENNE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOLENNE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOLENNE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOLENNE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOLENNE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOLENNE_REDIS_URL"`
	Address      string        `envconfig:"SOLENNE_REDIS_ADDR"`
	Password     string        `envconfig:"SOLENNE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOLENNE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOLENNE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOLENNE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOLENNE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOLENNE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOLENNE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SOLENNE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SOLENNE_JWT_ISSUER" default:"solenne-admin"`
	ExpirationMinutes int    `envconfig:"SOLENNE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CacheConfig struct {
	PageTTL time.Duration `envconfig:"SOLENNE_CACHE_PAGE_TTL" default:"5m"`
}

// OrdersConfig tunes the order listing's count-query guard.
type OrdersConfig struct {
	CountTimeout time.Duration `envconfig:"SOLENNE_ORDERS_COUNT_TIMEOUT" default:"2s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SOLENNE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SOLENNE_AUTO_MIGRATE" default:"false"`
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
