package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Stripe   StripeConfig
	FX       FXConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Email    EmailConfig
	Checkout CheckoutConfig
	Receipt  ReceiptConfig
}

type AppConfig struct {
	Name         string
	Port         string
	Debug        bool
	LogPath      string
	PublicURL    string
	Brand        string
	SupportEmail string
	CORSOrigins  []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	Migrate  bool
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Timeout       time.Duration
}

// FXConfig covers the rate provider only. Plan prices are always USD.
type FXConfig struct {
	ProviderURL string
	CacheTTL    time.Duration
	Timeout     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers      []string
	BookingTopic string
}

type EmailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	AdminEmail string
	Timeout    time.Duration
}

// CheckoutConfig carries the gateway conventions that differ per provider.
type CheckoutConfig struct {
	MetadataMaxLen        int
	ZeroDecimalCurrencies []string
	SuccessPath           string
	CancelPath            string
}

type ReceiptConfig struct {
	// FontPath replaces the embedded receipt font, e.g. with a CJK face.
	FontPath string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "flight-reservation")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("PUBLIC_URL", "http://localhost:3000")
	viper.SetDefault("BRAND_NAME", "FlyProof")
	viper.SetDefault("SUPPORT_EMAIL", "support@flyproof.example")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATE", true)
	viper.SetDefault("STRIPE_TIMEOUT", "15s")
	viper.SetDefault("FX_PROVIDER_URL", "https://api.exchangerate-api.com/v4/latest")
	viper.SetDefault("FX_CACHE_TTL", "10m")
	viper.SetDefault("FX_TIMEOUT", "5s")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_BOOKING_TOPIC", "booking-events")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_TIMEOUT", "20s")
	viper.SetDefault("CHECKOUT_METADATA_MAX_LEN", 500)
	viper.SetDefault("CHECKOUT_ZERO_DECIMAL_CURRENCIES", "BIF,CLP,DJF,GNF,JPY,KMF,KRW,MGA,PYG,RWF,UGX,VND,VUV,XAF,XOF,XPF")
	viper.SetDefault("CHECKOUT_SUCCESS_PATH", "/booking/success?session_id={CHECKOUT_SESSION_ID}")
	viper.SetDefault("CHECKOUT_CANCEL_PATH", "/booking/cancel?session_id={CHECKOUT_SESSION_ID}")

	// .env is optional, the process environment always wins
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	if base := strings.TrimSpace(viper.GetString("FX_BASE_CURRENCY")); base != "" && !strings.EqualFold(base, "USD") {
		return nil, fmt.Errorf("FX_BASE_CURRENCY=%s is not supported: plan prices are stored in USD", base)
	}

	config := &Config{
		App: AppConfig{
			Name:         viper.GetString("APP_NAME"),
			Port:         viper.GetString("PORT"),
			Debug:        viper.GetBool("DEBUG"),
			LogPath:      viper.GetString("LOG_PATH"),
			PublicURL:    strings.TrimRight(viper.GetString("PUBLIC_URL"), "/"),
			Brand:        viper.GetString("BRAND_NAME"),
			SupportEmail: viper.GetString("SUPPORT_EMAIL"),
			CORSOrigins:  splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
			Migrate:  viper.GetBool("DB_MIGRATE"),
		},
		Stripe: StripeConfig{
			SecretKey:     viper.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),
			Timeout:       viper.GetDuration("STRIPE_TIMEOUT"),
		},
		FX: FXConfig{
			ProviderURL: viper.GetString("FX_PROVIDER_URL"),
			CacheTTL:    viper.GetDuration("FX_CACHE_TTL"),
			Timeout:     viper.GetDuration("FX_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(viper.GetString("KAFKA_BROKERS")),
			BookingTopic: viper.GetString("KAFKA_BOOKING_TOPIC"),
		},
		Email: EmailConfig{
			Host:       viper.GetString("SMTP_HOST"),
			Port:       viper.GetInt("SMTP_PORT"),
			User:       viper.GetString("SMTP_USER"),
			Password:   viper.GetString("SMTP_PASS"),
			From:       viper.GetString("EMAIL_FROM"),
			AdminEmail: viper.GetString("ADMIN_EMAIL"),
			Timeout:    viper.GetDuration("SMTP_TIMEOUT"),
		},
		Checkout: CheckoutConfig{
			MetadataMaxLen:        viper.GetInt("CHECKOUT_METADATA_MAX_LEN"),
			ZeroDecimalCurrencies: splitList(strings.ToUpper(viper.GetString("CHECKOUT_ZERO_DECIMAL_CURRENCIES"))),
			SuccessPath:           viper.GetString("CHECKOUT_SUCCESS_PATH"),
			CancelPath:            viper.GetString("CHECKOUT_CANCEL_PATH"),
		},
		Receipt: ReceiptConfig{
			FontPath: viper.GetString("RECEIPT_FONT_PATH"),
		},
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
