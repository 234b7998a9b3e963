// main.go
package main

import (
	"context"
	"log"
	"time"

	"flight-reservation/cmd"
	"flight-reservation/internal/currency"
	"flight-reservation/internal/data/repository"
	"flight-reservation/internal/gateway"
	"flight-reservation/internal/notify"
	"flight-reservation/internal/receipt"
	"flight-reservation/internal/usecase"
	"flight-reservation/internal/wire"
	"flight-reservation/pkg/database"
	"flight-reservation/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Collaborators outside the database
	converter := newConverter(config, logger)

	payments := gateway.NewStripeGateway(gateway.StripeConfig{
		SecretKey:     config.Stripe.SecretKey,
		WebhookSecret: config.Stripe.WebhookSecret,
		Timeout:       config.Stripe.Timeout,
	}, logger)

	notifier, closeEvents := newNotifier(config, logger)
	defer closeEvents()

	fonts, err := receipt.LoadFonts(config.Receipt.FontPath)
	if err != nil {
		logger.Fatal("Failed to load receipt font", zap.Error(err))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, usecase.Dependencies{
		Gateway:      payments,
		Converter:    converter,
		Notifier:     notifier,
		ReceiptFonts: fonts,
	}, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}

// newConverter layers the process cache in front of Redis when Redis is
// configured and reachable.
func newConverter(config *utils.Config, logger *zap.Logger) currency.Converter {
	caches := []currency.RateCache{currency.NewMemoryCache(config.FX.CacheTTL)}

	if config.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.Ping(ctx).Err()
		cancel()

		if err != nil {
			logger.Warn("Redis unavailable, using in-process rate cache only", zap.Error(err))
			client.Close()
		} else {
			caches = append(caches, currency.NewRedisCache(client, config.FX.CacheTTL))
		}
	}

	provider := currency.NewHTTPRateProvider(config.FX.ProviderURL, config.FX.Timeout, logger)
	return currency.NewConverter(provider, logger, caches...)
}

func newNotifier(config *utils.Config, logger *zap.Logger) (notify.Notifier, func()) {
	templates, err := notify.ParseTemplates()
	if err != nil {
		logger.Fatal("Failed to parse email templates", zap.Error(err))
	}

	var sender notify.EmailSender
	if config.Email.Host != "" {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     config.Email.Host,
			Port:     config.Email.Port,
			Username: config.Email.User,
			Password: config.Email.Password,
			From:     config.Email.From,
			FromName: config.App.Brand,
			Timeout:  config.Email.Timeout,
		}, templates, logger)
	} else {
		logger.Warn("SMTP not configured, emails are only logged")
		sender = notify.NewLogSender(templates, logger)
	}

	var events notify.EventPublisher = notify.NopPublisher{}
	closeEvents := func() {}
	if len(config.Kafka.Brokers) > 0 {
		publisher := notify.NewKafkaPublisher(config.Kafka.Brokers, config.Kafka.BookingTopic, logger)
		events = publisher
		closeEvents = func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("Failed to close kafka writer", zap.Error(err))
			}
		}
	}

	denoms := currency.NewDenominations(config.Checkout.ZeroDecimalCurrencies)
	return notify.NewNotifier(sender, events, denoms, notify.NotifierConfig{
		Brand:        config.App.Brand,
		SupportEmail: config.App.SupportEmail,
		AdminEmail:   config.Email.AdminEmail,
		PublicURL:    config.App.PublicURL,
	}, logger), closeEvents
}
