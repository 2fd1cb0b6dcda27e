package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caiomioto2/workshop-athena-checkout/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type (
	Config struct {
		App         App         `env-prefix:"APP_"`
		Logger      Logger      `env-prefix:"LOGGER_"`
		HTTP        HTTP        `env-prefix:"HTTP_"`
		Metrics     Metrics     `env-prefix:"METRICS_"`
		Cache       Cache       `env-prefix:"CACHE_"`
		Checkout    Checkout    `env-prefix:"CHECKOUT_"`
		AbacatePay  AbacatePay  `env-prefix:"ABACATEPAY_"`
		InfinitePay InfinitePay `env-prefix:"INFINITEPAY_"`
		MercadoPago MercadoPago `env-prefix:"MP_"`
		Telegram    Telegram    `env-prefix:"TELEGRAM_"`
		Notion      Notion      `env-prefix:"NOTION_"`
		Env         string      `env:"ENV" env-default:"local" validate:"oneof=local dev staging prod"`
	}

	App struct {
		Name    string `env:"NAME"    validate:"required"`
		Version string `env:"VERSION" validate:"required"`
	}

	HTTP struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"8080"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=60s"         env-default:"15s"`
		IdleTimeout       time.Duration `env:"IDLE_TIMEOUT"        validate:"gte=10ms,lte=120s"        env-default:"60s"`
		ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"    validate:"gte=10ms,lte=30s"         env-default:"10s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Metrics struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"9090"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=30s"         env-default:"5s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	// Cache bounds the webhook dedupe store: provider retries that
	// re-deliver an already-processed payment are dropped while the
	// payment id is still cached.
	Cache struct {
		Capacity        int           `env:"CAPACITY"         validate:"required,min=1,max=1000000" env-default:"10000"`
		TTL             time.Duration `env:"TTL"              validate:"required,gt=0s,lte=168h"    env-default:"24h"`
		CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" validate:"gt=0s,lte=24h"              env-default:"1m"`
	}

	// Checkout holds product and routing settings shared by every
	// provider variant.
	Checkout struct {
		Provider           string `env:"PROVIDER"            validate:"oneof=abacatepay infinitepay mercadopago" env-default:"abacatepay"`
		ProductName        string `env:"PRODUCT_NAME"        validate:"required"`
		ProductDescription string `env:"PRODUCT_DESCRIPTION" validate:"required"`
		PriceCents         int64  `env:"PRICE_CENTS"         validate:"required,gte=100"`
		BaseURL            string `env:"BASE_URL"            validate:"required,url"`
		// NotifyWebhookURL is the optional secondary sink that gets
		// order metadata at charge creation, fire and forget.
		NotifyWebhookURL string `env:"NOTIFY_WEBHOOK_URL" validate:"omitempty,url"`
		// Debug gates verbose diagnostic detail in error responses.
		// Production answers stay generic.
		Debug bool `env:"DEBUG" env-default:"false"`
	}

	// Provider credentials are deliberately not required at startup:
	// a missing key fails the individual call with a configuration
	// error instead of keeping the whole service down.
	AbacatePay struct {
		APIKey  string `env:"API_KEY"`
		BaseURL string `env:"API_URL" validate:"omitempty,url" env-default:"https://api.abacatepay.com/v1"`
	}

	InfinitePay struct {
		Handle      string `env:"HANDLE"`
		MerchantDoc string `env:"MERCHANT_DOC"`
		BaseURL     string `env:"API_URL" validate:"omitempty,url" env-default:"https://api.infinitepay.io"`
	}

	MercadoPago struct {
		AccessToken string `env:"ACCESS_TOKEN"`
		BaseURL     string `env:"API_URL" validate:"omitempty,url" env-default:"https://api.mercadopago.com"`
	}

	Telegram struct {
		BotToken string `env:"BOT_TOKEN"`
		ChatID   string `env:"CHAT_ID"`
		BaseURL  string `env:"API_URL" validate:"omitempty,url" env-default:"https://api.telegram.org"`
	}

	Notion struct {
		Token string `env:"TOKEN"`
		// DatabaseID pins the CRM database; when empty the workspace
		// is searched for a database titled "CRM".
		DatabaseID string `env:"DATABASE_ID"`
		BaseURL    string `env:"API_URL" validate:"omitempty,url" env-default:"https://api.notion.com"`
	}

	Logger struct {
		Level      string `env:"LEVEL"       env-default:"info"                        validate:"oneof=debug info warn error"`
		Filename   string `env:"FILENAME"    env-default:"./logs/checkout-service.log"`
		MaxSize    int    `env:"MAX_SIZE"    env-default:"100"                         validate:"min=1,max=1000"`
		MaxBackups int    `env:"MAX_BACKUPS" env-default:"3"                           validate:"min=0,max=20"`
		MaxAge     int    `env:"MAX_AGE"     env-default:"28"                          validate:"min=1,max=365"`
	}
)

func Load() (*Config, error) {
	path := fetchConfigPath()
	if path == "" {
		return nil, entity.ErrConfigPathNotSet
	}
	return LoadPath(path)
}

func LoadPath(configPath string) (*Config, error) {
	const op = "config.LoadPath"

	validate := validator.New()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	} else if err != nil {
		return nil, fmt.Errorf("%s: checking config file: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: read config: %w", op, err)
	}

	var validationErrors []string
	if err := validate.Struct(&cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, ve := range validationErrs {
				validationErrors = append(validationErrors,
					fmt.Sprintf("%s=%v must satisfy '%s'", ve.Field(), ve.Value(), ve.Tag()))
			}
			return nil, fmt.Errorf(
				"%s: config validation: %v", op,
				strings.Join(validationErrors, "; "),
			)
		}
		return nil, fmt.Errorf("%s: config validation: %w", op, err)
	}

	return &cfg, nil
}

func fetchConfigPath() string {
	var path string
	flag.StringVar(&path, "config", "", "Path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}
