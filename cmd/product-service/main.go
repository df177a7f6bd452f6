package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/99minutos/auth-system/docs/products"
	"github.com/99minutos/auth-system/internal/api"
	"github.com/99minutos/auth-system/internal/core/ports"
	"github.com/99minutos/auth-system/internal/core/service"
	"github.com/99minutos/auth-system/internal/infrastructure/authclient"
	"github.com/99minutos/auth-system/internal/infrastructure/db/mongo"
	"github.com/99minutos/auth-system/internal/infrastructure/db/postgres"
	"github.com/99minutos/auth-system/internal/infrastructure/db/postgres/migrations"
	"github.com/99minutos/auth-system/internal/infrastructure/db/redis"
	"github.com/99minutos/auth-system/internal/infrastructure/http/handlers"
	"github.com/99minutos/auth-system/internal/pkg/config"
	"github.com/99minutos/auth-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadProduct()
	if err != nil {
		boot := logger.Init(logger.Options{Service: "product-service"})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Service: "product-service",
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("product-service stopped")
	}
}

type store struct {
	products ports.ProductRepository
	close    func(context.Context) error
}

func openStore(ctx context.Context, cfg *config.ProductConfig) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		products := mongo.NewProductRepository(db)
		if err := products.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{products: products, close: client.Disconnect}, nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN()})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, migrations.Products(), migrations.ProductsVersionTable); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &store{
			products: postgres.NewProductRepository(db),
			close:    func(context.Context) error { return db.Close() },
		}, nil
	}
}

func run(cfg *config.ProductConfig, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}()
	log.Info().Str("driver", cfg.StoreDriver).Msg("store connected")

	readiness := map[string]handlers.Check{cfg.StoreDriver: st.products.Ping}

	var opts []authclient.Option
	if cfg.ValidationCacheTTL > 0 {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:    cfg.Redis.Addr,
			DB:      cfg.Redis.DB,
			Timeout: cfg.AuthValidateTimeout,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		opts = append(opts, authclient.WithCache(redis.NewValidationCache(rdb, cfg.ValidationCacheTTL)))
		readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Dur("ttl", cfg.ValidationCacheTTL).Msg("validation cache enabled")
	}

	client := authclient.New(cfg.AuthServiceURL, cfg.AuthValidateTimeout, log, opts...)
	readiness["auth_service"] = client.Ping

	e := api.NewProductRouter(api.ProductRouterConfig{
		Common: api.Common{
			Log:         log,
			CORSOrigins: cfg.CORSOrigins,
			Readiness:   readiness,
		},
		Service:   service.NewProductService(st.products, log),
		Validator: client,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("auth_service_url", cfg.AuthServiceURL).Msg("product-service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("product-service exiting")
	return nil
}
