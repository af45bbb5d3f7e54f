package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends selectable through SESSION_STORE and USER_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	SeedData bool   `env:"SEED_DATA, default=true"`

	Auth     AuthConfig
	Store    StoreConfig
	Checkout CheckoutConfig
	Admin    AdminConfig
	Stores   BackendConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Breaker  BreakerConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	SessionTTL time.Duration `env:"SESSION_TTL,      default=24h"`
	Identifier string        `env:"AUTH_IDENTIFIER,  default=username"`
	RateLimit  float64       `env:"LOGIN_RATE_LIMIT, default=5"`
	RateBurst  int           `env:"LOGIN_RATE_BURST, default=10"`
}

type StoreConfig struct {
	Name           string `env:"STORE_NAME,      default=Storefront"`
	CurrencySymbol string `env:"CURRENCY_SYMBOL, default=₱"`
}

type CheckoutConfig struct {
	Delay             time.Duration `env:"CHECKOUT_DELAY,     default=1s"`
	CartTTL           time.Duration `env:"CART_TTL,           default=24h"`
	SweepInterval     time.Duration `env:"SWEEP_INTERVAL,     default=1m"`
	DispatcherWorkers int           `env:"DISPATCHER_WORKERS, default=4"`
}

// AdminConfig seeds the first admin account. An empty password disables it.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Email    string `env:"ADMIN_EMAIL,    default=admin@example.com"`
	Password string `env:"ADMIN_PASSWORD"`
}

type BackendConfig struct {
	Sessions string `env:"SESSION_STORE, default=memory"`
	Users    string `env:"USER_STORE,    default=memory"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type BreakerConfig struct {
	MaxFailures uint32        `env:"BREAKER_MAX_FAILURES, default=5"`
	OpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT, default=30s"`
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" && !c.IsDevelopment() {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	switch c.Auth.Identifier {
	case "username", "email":
	default:
		return fmt.Errorf("AUTH_IDENTIFIER must be username or email, got %q", c.Auth.Identifier)
	}
	switch c.Stores.Sessions {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("SESSION_STORE must be memory or redis, got %q", c.Stores.Sessions)
	}
	switch c.Stores.Users {
	case StoreMemory, StoreMongo:
	default:
		return fmt.Errorf("USER_STORE must be memory or mongo, got %q", c.Stores.Users)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Checkout.DispatcherWorkers <= 0 {
		return fmt.Errorf("DISPATCHER_WORKERS must be positive")
	}
	return nil
}
