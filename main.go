// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ride-booking/cmd"
	"ride-booking/internal/data/repository"
	"ride-booking/internal/geocoding"
	"ride-booking/internal/outbox"
	"ride-booking/internal/usecase"
	"ride-booking/internal/wire"
	"ride-booking/migrations"
	"ride-booking/pkg/database"
	"ride-booking/pkg/middleware"
	"ride-booking/pkg/utils"

	"github.com/nats-io/nats.go"
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
	logger, err := utils.InitLogger(config.App)
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

	if config.JWT.Secret == "" {
		logger.Warn("JWT_SECRET is empty; every authenticated request will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.Migrate {
		if err := database.Migrate(migrations.FS, config.Database, logger); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	repos := repository.NewRepository(db, logger)
	tx := repository.NewTransactor(db, logger)

	// Redis backs the geocode cache and the rate limiter
	var rdb *redis.Client
	var limiter *middleware.RateLimiter
	if config.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, cache and rate limits degrade until it recovers", zap.Error(err))
		}
		limiter = middleware.NewRateLimiter(rdb, logger)
	} else if config.Limit.Enabled {
		logger.Warn("REDIS_ADDR not set, rate limiting disabled")
	}

	var geocoder geocoding.Resolver
	if config.Geocoder.URL != "" {
		geocoder = geocoding.NewNominatim(config.Geocoder, logger)
		if rdb != nil {
			geocoder = geocoding.NewCached(geocoder, rdb, config.Geocoder.CacheTTL, logger)
		}
	}

	// Outbox dispatchers
	dispatchers := []outbox.Dispatcher{
		outbox.NewNotificationDispatcher(repos.Notification, logger),
	}
	if config.NATS.URL != "" {
		nc, err := nats.Connect(config.NATS.URL,
			nats.Name(config.App.Name),
			nats.MaxReconnects(-1),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("NATS disconnected", zap.Error(err))
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
			}),
		)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer nc.Drain()

		dispatchers = append(dispatchers, outbox.NewNATSDispatcher(nc, config.NATS.SubjectPrefix, logger))
		logger.Info("NATS connected", zap.String("url", nc.ConnectedUrl()))
	}

	relay := outbox.NewRelay(tx, config.Outbox, logger, dispatchers...)
	relayCtx, stopRelay := context.WithCancel(context.Background())
	go relay.Run(relayCtx)

	// Wire all dependencies
	service := usecase.NewService(repos, tx, geocoder, relay, config, logger)
	app := wire.Wiring(service, db, limiter, config.Limit, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	// pending events stay in the table for the next start
	stopRelay()
	<-relay.Done()

	waitCtx, cancelWait := context.WithTimeout(context.Background(), config.App.ShutdownTimeout)
	if err := service.Background.Wait(waitCtx); err != nil {
		logger.Warn("Background geocoding still running at shutdown", zap.Error(err))
	}
	cancelWait()

	logger.Info("Shutdown complete")
}
