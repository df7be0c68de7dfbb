package config

import (
	"fmt"
	"time"

	"github.com/Skotchmaster/artisan_market/pkg/config"
	"github.com/Skotchmaster/artisan_market/pkg/currency"
)

const (
	CatalogHTTP = "http"
	CatalogES   = "es"
)

// submitHeadroom is the part of the write timeout kept free for the submit
// handler's own work after the payment delay.
const submitHeadroom = 5 * time.Second

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"artisan-market"`
	JWTSecret   string `env:"JWT_SECRET"`

	Log      Log
	HTTP     HTTPServer
	DB       DB
	Kafka    Kafka
	Catalog  Catalog
	ES       ES `envPrefix:"ES_"`
	Checkout Checkout
	Sessions Sessions
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Port          int  `env:"SERVER_PORT" envDefault:"8080"`
	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"true"`
	CSRF          bool `env:"CSRF_PROTECTION" envDefault:"true"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
}

type DB struct {
	Driver string `env:"DB_DRIVER" envDefault:"postgres"`
	URL    string `env:"DATABASE_URL"`
}

type Kafka struct {
	BrokerList string `env:"KAFKA_BROKERS"`
	CartTopic  string `env:"KAFKA_CART_TOPIC" envDefault:"cart_events"`
	OrderTopic string `env:"KAFKA_ORDER_TOPIC" envDefault:"order_events"`
}

// Brokers is empty when publishing is disabled.
func (k Kafka) Brokers() []string {
	return config.CSV(k.BrokerList)
}

type Catalog struct {
	Backend string `env:"CATALOG_BACKEND" envDefault:"http"`
	URL     string `env:"CATALOG_URL"`
}

type ES struct {
	URL      string `env:"URL"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Index    string `env:"INDEX" envDefault:"product"`
}

type Checkout struct {
	Delay    time.Duration `env:"CHECKOUT_DELAY" envDefault:"3s"`
	Currency string        `env:"DISPLAY_CURRENCY" envDefault:"INR"`
}

type Sessions struct {
	IdleTTL       time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
}

func Load() (Config, error) {
	cfg, err := config.Load[Config](".env")
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings the chosen backends depend on.
func (c Config) Validate() error {
	required := []config.Field{
		{Env: "DATABASE_URL", Value: c.DB.URL},
		{Env: "JWT_SECRET", Value: c.JWTSecret},
	}
	switch c.Catalog.Backend {
	case CatalogHTTP:
		required = append(required, config.Field{Env: "CATALOG_URL", Value: c.Catalog.URL})
	case CatalogES:
		required = append(required, config.Field{Env: "ES_URL", Value: c.ES.URL})
	default:
		return fmt.Errorf("CATALOG_BACKEND must be %q or %q, got %q", CatalogHTTP, CatalogES, c.Catalog.Backend)
	}
	if err := config.RequireNonEmpty(required...); err != nil {
		return err
	}
	if c.Checkout.Delay < 0 {
		return fmt.Errorf("CHECKOUT_DELAY must not be negative")
	}
	if c.HTTP.WriteTimeout > 0 && c.Checkout.Delay+submitHeadroom > c.HTTP.WriteTimeout {
		return fmt.Errorf("CHECKOUT_DELAY %s needs SERVER_WRITE_TIMEOUT of at least %s, got %s",
			c.Checkout.Delay, c.Checkout.Delay+submitHeadroom, c.HTTP.WriteTimeout)
	}
	if c.Sessions.IdleTTL <= 0 || c.Sessions.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_IDLE_TTL and SESSION_SWEEP_INTERVAL must be positive")
	}
	if _, err := currency.ParseCurrency(c.Checkout.Currency); err != nil {
		return fmt.Errorf("DISPLAY_CURRENCY: %w", err)
	}
	return nil
}

func (c Config) DisplayCurrency() currency.Currency {
	cur, _ := currency.ParseCurrency(c.Checkout.Currency)
	return cur
}
