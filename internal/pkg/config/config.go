package config

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// AuthConfig configures the authority (auth-service).
type AuthConfig struct {
	Port     string `env:"AUTH_PORT, default=4000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	StoreDriver  string `env:"STORE_DRIVER,  default=postgres"`
	SecretScheme string `env:"SECRET_SCHEME, default=bcrypt"`
	BcryptCost   int    `env:"BCRYPT_COST,   default=10"`

	// TokenTTL of zero keeps tokens valid until the process restarts.
	TokenTTL      time.Duration `env:"TOKEN_TTL,            default=0s"`
	SweepInterval time.Duration `env:"TOKEN_SWEEP_INTERVAL, default=1m"`

	// LoginRateLimit is requests per second per client IP; zero disables it.
	LoginRateLimit float64 `env:"LOGIN_RATE_LIMIT, default=0"`
	LoginRateBurst int     `env:"LOGIN_RATE_BURST, default=10"`

	AuditWorkers int      `env:"AUDIT_WORKERS,        default=4"`
	CORSOrigins  []string `env:"CORS_ALLOWED_ORIGINS, default=*"`

	Postgres PostgresConfig
	Mongo    MongoConfig
}

// ProductConfig configures the dependent product-service.
type ProductConfig struct {
	Port     string `env:"PRODUCT_PORT, default=5000"`
	Env      string `env:"ENV,          default=development"`
	LogLevel string `env:"LOG_LEVEL,    default=info"`

	StoreDriver string `env:"STORE_DRIVER, default=postgres"`

	// AuthServiceURL is the base URL of the authority; /validate is appended.
	AuthServiceURL      string        `env:"AUTH_SERVICE_URL,      default=http://localhost:4000"`
	AuthValidateTimeout time.Duration `env:"AUTH_VALIDATE_TIMEOUT, default=3s"`
	// ValidationCacheTTL of zero disables the cache: every protected request
	// makes one round trip to the authority.
	ValidationCacheTTL time.Duration `env:"VALIDATION_CACHE_TTL, default=0s"`

	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*"`

	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type PostgresConfig struct {
	Host     string `env:"DB_HOST,     default=localhost"`
	Port     int    `env:"DB_PORT,     default=5432"`
	User     string `env:"DB_USER,     default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME,     default=app"`
	SSLMode  string `env:"DB_SSLMODE,  default=disable"`
}

// DSN renders the connection URL understood by the pgx driver.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=auth_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// LoadAuth reads the auth-service configuration from environment variables.
func LoadAuth() (*AuthConfig, error) {
	var cfg AuthConfig
	if err := process(&cfg); err != nil {
		return nil, err
	}
	if err := checkDriver(cfg.StoreDriver); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadProduct reads the product-service configuration from environment variables.
func LoadProduct() (*ProductConfig, error) {
	var cfg ProductConfig
	if err := process(&cfg); err != nil {
		return nil, err
	}
	if err := checkDriver(cfg.StoreDriver); err != nil {
		return nil, err
	}
	if _, err := url.ParseRequestURI(cfg.AuthServiceURL); err != nil {
		return nil, fmt.Errorf("config: invalid AUTH_SERVICE_URL: %w", err)
	}
	return &cfg, nil
}

func process(cfg any) error {
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return nil
}

func checkDriver(driver string) error {
	switch driver {
	case DriverPostgres, DriverMongo:
		return nil
	default:
		return fmt.Errorf("config: unsupported STORE_DRIVER %q", driver)
	}
}
