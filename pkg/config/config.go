package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names, exported so tests can set them without
// duplicating strings.
const (
	EnvAppEnv           = "RICEMANDI_APP_ENV"
	EnvPort             = "RICEMANDI_APP_PORT"
	EnvDBDSN            = "RICEMANDI_DB_DSN"
	EnvRedisURL         = "RICEMANDI_REDIS_URL"
	EnvSessionSecret    = "RICEMANDI_SESSION_SECRET"
	EnvCartStoreBackend = "RICEMANDI_CART_STORE_BACKEND"
	EnvCartTaxRate      = "RICEMANDI_CART_TAX_RATE"
)

// Store backends selectable for cart persistence.
const (
	CartStoreRedis    = "redis"
	CartStoreDatabase = "database"
	CartStoreMemory   = "memory"
)

type Config struct {
	App     AppConfig
	Cart    CartConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RICEMANDI_APP_ENV" required:"true"`
	Port         string `envconfig:"RICEMANDI_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"RICEMANDI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RICEMANDI_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"RICEMANDI_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CartConfig carries the pricing policy and persistence selection for the
// cart engine. The defaults encode the marketplace rules: flat 5% tax and a
// 100-unit shipping fee waived above a 1000-unit subtotal.
type CartConfig struct {
	TaxRate               string        `envconfig:"RICEMANDI_CART_TAX_RATE" default:"0.05"`
	ShippingFee           string        `envconfig:"RICEMANDI_CART_SHIPPING_FEE" default:"100"`
	FreeShippingThreshold string        `envconfig:"RICEMANDI_CART_FREE_SHIPPING_THRESHOLD" default:"1000"`
	StoreBackend          string        `envconfig:"RICEMANDI_CART_STORE_BACKEND" default:"redis"`
	TTL                   time.Duration `envconfig:"RICEMANDI_CART_TTL" default:"720h"`
}

func (c CartConfig) validate() error {
	switch c.StoreBackend {
	case CartStoreRedis, CartStoreDatabase, CartStoreMemory:
	default:
		return fmt.Errorf("unknown cart store backend %q", c.StoreBackend)
	}
	for name, raw := range map[string]string{
		"tax rate":                c.TaxRate,
		"shipping fee":            c.ShippingFee,
		"free shipping threshold": c.FreeShippingThreshold,
	} {
		if _, err := decimal.NewFromString(raw); err != nil {
			return fmt.Errorf("invalid cart %s %q: %w", name, raw, err)
		}
	}
	return nil
}

// TaxRateDecimal returns the configured tax rate as a decimal.
func (c CartConfig) TaxRateDecimal() decimal.Decimal {
	return mustDecimal(c.TaxRate)
}

// ShippingFeeDecimal returns the flat shipping fee as a decimal.
func (c CartConfig) ShippingFeeDecimal() decimal.Decimal {
	return mustDecimal(c.ShippingFee)
}

// FreeShippingThresholdDecimal returns the subtotal above which shipping is free.
func (c CartConfig) FreeShippingThresholdDecimal() decimal.Decimal {
	return mustDecimal(c.FreeShippingThreshold)
}

func mustDecimal(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		panic(fmt.Sprintf("decimal config value %q not validated at load: %v", raw, err))
	}
	return d
}

type DBConfig struct {
	DSN    string `envconfig:"RICEMANDI_DB_DSN"`
	Driver string `envconfig:"RICEMANDI_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"RICEMANDI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RICEMANDI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RICEMANDI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RICEMANDI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RICEMANDI_REDIS_URL"`
	Address      string        `envconfig:"RICEMANDI_REDIS_ADDR"`
	Password     string        `envconfig:"RICEMANDI_REDIS_PASSWORD"`
	DB           int           `envconfig:"RICEMANDI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RICEMANDI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RICEMANDI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RICEMANDI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RICEMANDI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RICEMANDI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig configures the signed cart session tokens.
type SessionConfig struct {
	Secret     string        `envconfig:"RICEMANDI_SESSION_SECRET" required:"true"`
	Issuer     string        `envconfig:"RICEMANDI_SESSION_ISSUER" default:"ricemandi-cart"`
	TTL        time.Duration `envconfig:"RICEMANDI_SESSION_TTL" default:"720h"`
	HeaderName string        `envconfig:"RICEMANDI_SESSION_HEADER" default:"X-Cart-Session"`
}
