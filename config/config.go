package config

import (
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port     string `envconfig:"PORT"      default:":8080"`
	GrpcPort string `envconfig:"GRPC_PORT" default:":50051"` // gRPC health endpoint
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	GinMode  string `envconfig:"GIN_MODE"  default:"debug"`

	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`
	MigrationsAuto bool   `envconfig:"MIGRATIONS_AUTO" default:"true"`

	SessionStore    string        `envconfig:"SESSION_STORE"     default:"sqlite"` // sqlite | redis
	SessionDBPath   string        `envconfig:"SESSION_DB_PATH"   default:"./sessions.db"`
	SessionTTL      time.Duration `envconfig:"SESSION_TTL"       default:"720h"`
	SessionKey      string        `envconfig:"SESSION_KEY"`
	CookieSecure    bool          `envconfig:"COOKIE_SECURE"     default:"false"`
	CookieDomain    string        `envconfig:"COOKIE_DOMAIN"`
	RedisAddress    string        `envconfig:"REDIS_ADDRESS"     default:"localhost:6379"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
	ProductCacheTTL time.Duration `envconfig:"PRODUCT_CACHE_TTL" default:"24h"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	AddressLookupURL     string        `envconfig:"ADDRESS_LOOKUP_URL"     default:"https://viacep.com.br"`
	AddressLookupTimeout time.Duration `envconfig:"ADDRESS_LOOKUP_TIMEOUT" default:"5s"`

	PaymentProviderURL     string        `envconfig:"PAYMENT_PROVIDER_URL"     default:"https://sandbox.api.pagseguro.com"`
	PaymentProviderToken   string        `envconfig:"PAYMENT_PROVIDER_TOKEN"`
	PaymentProviderTimeout time.Duration `envconfig:"PAYMENT_PROVIDER_TIMEOUT" default:"15s"`
	PaymentNotificationURL string        `envconfig:"PAYMENT_NOTIFICATION_URL"`
	PaymentRedirectURL     string        `envconfig:"PAYMENT_REDIRECT_URL"`
	WebhookSecret          string        `envconfig:"WEBHOOK_SECRET"`

	ServiceableCity        string `envconfig:"SERVICEABLE_CITY"         default:"São Paulo"`
	ShippingOfflineContact string `envconfig:"SHIPPING_OFFLINE_CONTACT" default:"WhatsApp"`
	ShippingMethodsFile    string `envconfig:"SHIPPING_METHODS_FILE"`
	MotoboyMethodID        string `envconfig:"MOTOBOY_METHOD_ID"`

	OperatorTokenHash string `envconfig:"OPERATOR_TOKEN_HASH"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		err = envconfig.Process("", &config)
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: Port=%s, GRPC Port=%s, LogLevel=%s, SessionStore=%s",
			config.Port, config.GrpcPort, config.LogLevel, config.SessionStore)
		if config.SessionKey == "" {
			logger.Warn("SESSION_KEY is not set. Cookies are signed with a random key and will not survive a restart.")
		}
		if config.OperatorTokenHash == "" {
			logger.Warn("OPERATOR_TOKEN_HASH is not set. Dashboard routes will reject every request.")
		}
		if config.MotoboyMethodID == "" {
			logger.Warn("MOTOBOY_METHOD_ID is not set. Delivery time and lobby fields will be hidden on the dashboard.")
		}
	})
	return &config
}
