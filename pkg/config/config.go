package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "supplytracker"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SUPPLYTRACKER_DB_DSN"
	EnvDBHost = "SUPPLYTRACKER_DB_HOST"
	EnvDBUser = "SUPPLYTRACKER_DB_USER"
	EnvDBName = "SUPPLYTRACKER_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	SMTP         SMTPConfig
	Alerts       AlertsConfig
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
	Env          string `envconfig:"SUPPLYTRACKER_APP_ENV" required:"true"`
	Port         string `envconfig:"SUPPLYTRACKER_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SUPPLYTRACKER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUPPLYTRACKER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SUPPLYTRACKER_DB_DSN"`
	Driver string `envconfig:"SUPPLYTRACKER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SUPPLYTRACKER_DB_HOST"`
	LegacyPort     int    `envconfig:"SUPPLYTRACKER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SUPPLYTRACKER_DB_USER"`
	LegacyPassword string `envconfig:"SUPPLYTRACKER_DB_PASSWORD"`
	LegacyName     string `envconfig:"SUPPLYTRACKER_DB_NAME"`
	LegacySSLMode  string `envconfig:"SUPPLYTRACKER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUPPLYTRACKER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUPPLYTRACKER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUPPLYTRACKER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUPPLYTRACKER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SUPPLYTRACKER_REDIS_URL"`
	Address      string        `envconfig:"SUPPLYTRACKER_REDIS_ADDR"`
	Password     string        `envconfig:"SUPPLYTRACKER_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUPPLYTRACKER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUPPLYTRACKER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUPPLYTRACKER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUPPLYTRACKER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUPPLYTRACKER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUPPLYTRACKER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SUPPLYTRACKER_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SUPPLYTRACKER_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SUPPLYTRACKER_JWT_EXPIRATION_MINUTES" default:"120"`
	RefreshTokenTTLMinutes int    `envconfig:"SUPPLYTRACKER_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SUPPLYTRACKER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SUPPLYTRACKER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SUPPLYTRACKER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SUPPLYTRACKER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SUPPLYTRACKER_ARGON_KEY_LEN" default:"32"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SUPPLYTRACKER_SMTP_HOST" default:"smtp.gmail.com"`
	Port     int    `envconfig:"SUPPLYTRACKER_SMTP_PORT" default:"465"`
	Username string `envconfig:"SUPPLYTRACKER_SMTP_USERNAME"`
	Password string `envconfig:"SUPPLYTRACKER_SMTP_PASSWORD"`
	From     string `envconfig:"SUPPLYTRACKER_SMTP_FROM"`
}

type AlertsConfig struct {
	ScanInterval time.Duration `envconfig:"SUPPLYTRACKER_ALERT_SCAN_INTERVAL" default:"1h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SUPPLYTRACKER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SUPPLYTRACKER_AUTO_MIGRATE" default:"false"`
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
