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
	Password     PasswordConfig
	Cart         CartConfig
	Webpay       WebpayConfig
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
	Env          string `envconfig:"BIZCOCHITO_APP_ENV" required:"true"`
	Port         string `envconfig:"BIZCOCHITO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BIZCOCHITO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BIZCOCHITO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BIZCOCHITO_DB_DSN"`
	Driver string `envconfig:"BIZCOCHITO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BIZCOCHITO_DB_HOST"`
	LegacyPort     int    `envconfig:"BIZCOCHITO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BIZCOCHITO_DB_USER"`
	LegacyPassword string `envconfig:"BIZCOCHITO_DB_PASSWORD"`
	LegacyName     string `envconfig:"BIZCOCHITO_DB_NAME"`
	LegacySSLMode  string `envconfig:"BIZCOCHITO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BIZCOCHITO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BIZCOCHITO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BIZCOCHITO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BIZCOCHITO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BIZCOCHITO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BIZCOCHITO_REDIS_ADDR"`
	Password     string        `envconfig:"BIZCOCHITO_REDIS_PASSWORD"`
	DB           int           `envconfig:"BIZCOCHITO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BIZCOCHITO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BIZCOCHITO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BIZCOCHITO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BIZCOCHITO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BIZCOCHITO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BIZCOCHITO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BIZCOCHITO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BIZCOCHITO_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BIZCOCHITO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BIZCOCHITO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BIZCOCHITO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BIZCOCHITO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BIZCOCHITO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BIZCOCHITO_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	ShippingSurcharge int           `envconfig:"BIZCOCHITO_CART_SHIPPING_SURCHARGE" default:"2000"`
	GuardTTL          time.Duration `envconfig:"BIZCOCHITO_CHECKOUT_GUARD_TTL" default:"1h"`
	IdempotencyTTL    time.Duration `envconfig:"BIZCOCHITO_IDEMPOTENCY_TTL" default:"24h"`
}

type WebpayConfig struct {
	CommerceCode string `envconfig:"BIZCOCHITO_WEBPAY_COMMERCE_CODE" required:"true"`
	APIKey       string `envconfig:"BIZCOCHITO_WEBPAY_API_KEY" required:"true"`
	Env          string `envconfig:"BIZCOCHITO_WEBPAY_ENV" default:"integration"`
	ReturnURL    string `envconfig:"BIZCOCHITO_WEBPAY_RETURN_URL" required:"true"`
}

// Environment returns the normalized Webpay environment (integration/production).
func (w WebpayConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(w.Env))
	if env == "" {
		return "integration"
	}
	return env
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BIZCOCHITO_AUTO_MIGRATE" default:"false"`
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
