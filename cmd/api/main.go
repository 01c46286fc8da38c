package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/custrec/customer-service/internal/api"
	"github.com/custrec/customer-service/internal/api/handler"
	"github.com/custrec/customer-service/internal/api/metrics"
	"github.com/custrec/customer-service/internal/core/ports"
	"github.com/custrec/customer-service/internal/core/service"
	mongostore "github.com/custrec/customer-service/internal/infrastructure/db/mongo"
	pgstore "github.com/custrec/customer-service/internal/infrastructure/db/postgres"
	redisstore "github.com/custrec/customer-service/internal/infrastructure/db/redis"
	"github.com/custrec/customer-service/internal/pkg/config"
	"github.com/custrec/customer-service/pkg/logger"
)

// store bundles the repositories of the selected backend.
type store struct {
	users     ports.UserRepository
	customers ports.CustomerRepository
	readiness map[string]handler.Pinger
	close     func()
}

// @title                       Customer Records API
// @version                     1.0
// @description                 Authenticated CRUD and paginated search over customer records.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "customer-service: %v\n", err)
		os.Exit(1)
	}
}

// run wires the service and blocks until SIGINT/SIGTERM. Every exit path
// returns through the deferred cleanups.
func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "customer-service",
	})

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer st.close()

	var idempotency ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer rdb.Close()

		idempotency = redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		st.readiness["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(st.users, tokens, log)
	customerService := service.NewCustomerService(st.customers, idempotency, log)

	router := api.NewRouter(api.Dependencies{
		Logger:          log,
		AuthService:     authService,
		CustomerService: customerService,
		TokenVerifier:   tokens,
		FrontendURL:     cfg.FrontendURL,
		Readiness:       st.readiness,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Str("store", cfg.StoreDriver).Msg("starting customer API server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			users:     mongostore.NewUserRepository(db),
			customers: mongostore.NewCustomerRepository(db),
			readiness: map[string]handler.Pinger{
				"mongodb": handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) }),
			},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		if cfg.Postgres.Migrate {
			log.Info().Msg("running database migrations")
			if err := pgstore.RunMigrations(cfg.Postgres.URL); err != nil {
				return nil, err
			}
		}

		pool, err := pgstore.Connect(ctx, pgstore.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, err
		}
		if err := metrics.RegisterPoolStats(prometheus.DefaultRegisterer, pool); err != nil {
			log.Warn().Err(err).Msg("pool metrics not registered")
		}
		return &store{
			users:     pgstore.NewUserRepository(pool),
			customers: pgstore.NewCustomerRepository(pool),
			readiness: map[string]handler.Pinger{"postgres": pool},
			close:     pool.Close,
		}, nil
	}
}
