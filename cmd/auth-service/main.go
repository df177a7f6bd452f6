package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "github.com/99minutos/auth-system/docs/auth"
	"github.com/99minutos/auth-system/internal/api"
	"github.com/99minutos/auth-system/internal/api/metrics"
	"github.com/99minutos/auth-system/internal/core/ports"
	"github.com/99minutos/auth-system/internal/core/registry"
	"github.com/99minutos/auth-system/internal/core/service"
	"github.com/99minutos/auth-system/internal/infrastructure/db/mongo"
	"github.com/99minutos/auth-system/internal/infrastructure/db/postgres"
	"github.com/99minutos/auth-system/internal/infrastructure/db/postgres/migrations"
	"github.com/99minutos/auth-system/internal/infrastructure/http/handlers"
	"github.com/99minutos/auth-system/internal/infrastructure/queue"
	"github.com/99minutos/auth-system/internal/pkg/config"
	"github.com/99minutos/auth-system/pkg/logger"
	"github.com/99minutos/auth-system/pkg/secret"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadAuth()
	if err != nil {
		boot := logger.Init(logger.Options{Service: "auth-service"})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Service: "auth-service",
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("auth-service stopped")
	}
}

type stores struct {
	users ports.UserRepository
	audit ports.AuditRepository
	check handlers.Check
	close func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.AuthConfig) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		users := mongo.NewUserRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &stores{
			users: users,
			audit: mongo.NewAuditRepository(db),
			check: users.Ping,
			close: client.Disconnect,
		}, nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN()})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, migrations.Auth(), migrations.AuthVersionTable); err != nil {
			_ = db.Close()
			return nil, err
		}
		users := postgres.NewUserRepository(db)
		return &stores{
			users: users,
			audit: postgres.NewAuditRepository(db),
			check: users.Ping,
			close: func(context.Context) error { return db.Close() },
		}, nil
	}
}

func run(cfg *config.AuthConfig, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
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

	hasher, err := secret.New(cfg.SecretScheme, cfg.BcryptCost)
	if err != nil {
		return err
	}
	if cfg.SecretScheme == secret.SchemePlain {
		log.Warn().Msg("SECRET_SCHEME=plain: secrets are stored and compared in plaintext")
	}

	// Background workers stop with workerCtx, after the HTTP server drained.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	tokens := registry.New(registry.WithTTL(cfg.TokenTTL))
	metrics.NewTokensLiveGauge(prometheus.DefaultRegisterer, tokens.Len)
	go tokens.Run(workerCtx, cfg.SweepInterval, func(removed, live int) {
		metrics.TokensSweptTotal.Add(float64(removed))
		if removed > 0 {
			log.Debug().Int("removed", removed).Int("live", live).Msg("expired tokens swept")
		}
	})

	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, st.audit, log)
	dispatcher.Start(workerCtx)

	authService := service.NewAuthService(st.users, hasher, tokens, dispatcher, log)

	e := api.NewAuthRouter(api.AuthRouterConfig{
		Common: api.Common{
			Log:         log,
			CORSOrigins: cfg.CORSOrigins,
			Readiness:   map[string]handlers.Check{cfg.StoreDriver: st.check},
		},
		Service:        authService,
		LoginRateLimit: cfg.LoginRateLimit,
		LoginRateBurst: cfg.LoginRateBurst,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Dur("token_ttl", cfg.TokenTTL).Msg("auth-service listening")
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

	cancelWorkers()
	dispatcher.Wait()

	log.Info().Msg("auth-service exiting")
	return nil
}

