package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv             = "STOREFRONT_APP_ENV"
	EnvPort               = "STOREFRONT_APP_PORT"
	EnvLogLevel           = "STOREFRONT_LOG_LEVEL"
	EnvBackendURL         = "STOREFRONT_BACKEND_URL"
	EnvBackendAPIKey      = "STOREFRONT_BACKEND_API_KEY"
	EnvBackendTimeout     = "STOREFRONT_BACKEND_TIMEOUT"
	EnvBackendJWTSecret   = "STOREFRONT_BACKEND_JWT_SECRET"
	EnvRedisURL           = "STOREFRONT_REDIS_URL"
	EnvSessionStore       = "STOREFRONT_SESSION_STORE"
	EnvSessionTTL         = "STOREFRONT_SESSION_TTL"
	EnvDeliveryFee        = "STOREFRONT_DELIVERY_FEE"
	EnvResetCooldown      = "STOREFRONT_RESET_COOLDOWN"
	EnvRecentWindow       = "STOREFRONT_RECENT_WINDOW"
	EnvTimeZone           = "STOREFRONT_TIME_ZONE"
	EnvMinPasswordLength  = "STOREFRONT_MIN_PASSWORD_LENGTH"
	SessionStoreMemory    = "memory"
	SessionStoreRedis     = "redis"
	defaultDeliveryFeeStr = "60.20"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Redis     RedisConfig
	Session   SessionConfig
	Shop      ShopConfig
	RateLimit RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.validate(cfg.Redis); err != nil {
		return nil, err
	}
	if err := cfg.Shop.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string   `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
	MaxBodyBytes int64    `envconfig:"STOREFRONT_MAX_BODY_BYTES" default:"65536"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the hosted data + auth API.
type BackendConfig struct {
	URL       string        `envconfig:"STOREFRONT_BACKEND_URL" required:"true"`
	APIKey    string        `envconfig:"STOREFRONT_BACKEND_API_KEY" required:"true"`
	Timeout   time.Duration `envconfig:"STOREFRONT_BACKEND_TIMEOUT" default:"30s"`
	JWTSecret string        `envconfig:"STOREFRONT_BACKEND_JWT_SECRET"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type SessionConfig struct {
	Store string        `envconfig:"STOREFRONT_SESSION_STORE" default:"memory"`
	TTL   time.Duration `envconfig:"STOREFRONT_SESSION_TTL" default:"168h"`
}

// UsesRedis reports whether sessions and cooldowns live in redis.
func (s SessionConfig) UsesRedis() bool {
	return strings.EqualFold(strings.TrimSpace(s.Store), SessionStoreRedis)
}

// RateLimitConfig throttles the gateway auth endpoints. It only applies when redis is configured.
type RateLimitConfig struct {
	Window     time.Duration `envconfig:"STOREFRONT_AUTH_RATE_WINDOW" default:"1m"`
	IPLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_IP_LIMIT" default:"20"`
	EmailLimit int           `envconfig:"STOREFRONT_AUTH_RATE_EMAIL_LIMIT" default:"5"`
}

type ShopConfig struct {
	DeliveryFee       string        `envconfig:"STOREFRONT_DELIVERY_FEE" default:"60.20"`
	ResetCooldown     time.Duration `envconfig:"STOREFRONT_RESET_COOLDOWN" default:"60s"`
	RecentWindow      time.Duration `envconfig:"STOREFRONT_RECENT_WINDOW" default:"60m"`
	TimeZone          string        `envconfig:"STOREFRONT_TIME_ZONE" default:"Local"`
	MinPasswordLength int           `envconfig:"STOREFRONT_MIN_PASSWORD_LENGTH" default:"6"`
}

// Delivery returns the flat delivery fee as a decimal.
func (s ShopConfig) Delivery() decimal.Decimal {
	raw := strings.TrimSpace(s.DeliveryFee)
	if raw == "" {
		raw = defaultDeliveryFeeStr
	}
	fee, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.RequireFromString(defaultDeliveryFeeStr)
	}
	return fee
}

// Location resolves the configured time zone used for order grouping.
func (s ShopConfig) Location() *time.Location {
	name := strings.TrimSpace(s.TimeZone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

func (b *BackendConfig) validate() error {
	b.URL = strings.TrimSpace(b.URL)
	u, err := url.Parse(b.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute url, got %q", EnvBackendURL, b.URL)
	}
	if strings.TrimSpace(b.APIKey) == "" {
		return fmt.Errorf("%s is required", EnvBackendAPIKey)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvBackendTimeout)
	}
	return nil
}

func (s *SessionConfig) validate(redis RedisConfig) error {
	switch strings.ToLower(strings.TrimSpace(s.Store)) {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if !redis.Enabled() {
			return fmt.Errorf("%s=redis requires %s", EnvSessionStore, EnvRedisURL)
		}
	default:
		return fmt.Errorf("%s must be memory or redis, got %q", EnvSessionStore, s.Store)
	}
	if s.TTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionTTL)
	}
	return nil
}

func (s *ShopConfig) validate() error {
	if _, err := decimal.NewFromString(strings.TrimSpace(s.DeliveryFee)); err != nil {
		return fmt.Errorf("%s must be a decimal amount: %w", EnvDeliveryFee, err)
	}
	if s.ResetCooldown < 0 {
		return fmt.Errorf("%s cannot be negative", EnvResetCooldown)
	}
	if s.RecentWindow <= 0 {
		return fmt.Errorf("%s must be positive", EnvRecentWindow)
	}
	if s.MinPasswordLength <= 0 {
		return fmt.Errorf("%s must be positive", EnvMinPasswordLength)
	}
	return nil
}
