// Command api runs the bakery storefront HTTP API.
//
// @title                       Bakery Storefront API
// @version                     1.0
// @description                 Catalog, cart, checkout and order administration for the bakery storefront.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/cakeorder/bakery-storefront/docs"
	"github.com/cakeorder/bakery-storefront/internal/api"
	"github.com/cakeorder/bakery-storefront/internal/bootstrap"
	"github.com/cakeorder/bakery-storefront/internal/core/pagination"
	"github.com/cakeorder/bakery-storefront/internal/core/ports"
	"github.com/cakeorder/bakery-storefront/internal/core/service"
	"github.com/cakeorder/bakery-storefront/internal/core/validation"
	mongostore "github.com/cakeorder/bakery-storefront/internal/infrastructure/db/mongo"
	redisstore "github.com/cakeorder/bakery-storefront/internal/infrastructure/db/redis"
	"github.com/cakeorder/bakery-storefront/internal/infrastructure/notify"
	"github.com/cakeorder/bakery-storefront/internal/infrastructure/queue"
	"github.com/cakeorder/bakery-storefront/internal/pkg/config"
	"github.com/cakeorder/bakery-storefront/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{}).Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "bakery-storefront",
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Mongo ---
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("db", cfg.Mongo.Database).Msg("mongo connected")

	// --- Redis (optional: only backs the checkout lock) ---
	var (
		locker ports.CheckoutLocker
		rdb    *goredis.Client
	)
	rdb, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, checkout lock disabled")
	} else {
		defer rdb.Close()
		locker = redisstore.NewCheckoutLock(rdb, logger.Component(log, "checkout-lock"))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	// --- Order events ---
	dispatcher := queue.NewDispatcher(cfg.Checkout.NotifyWorkers, notify.NewLogNotifier(logger.Component(log, "notify")), logger.Component(log, "dispatcher"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Services ---
	store := mongostore.NewStore(client, db)
	hasher := service.NewBcryptHasher(cfg.Shop.BcryptCost)
	validator := validation.New(cfg.Shop.PhonePrefixBands)

	accountService := service.NewAccountService(store, store.Accounts(), validator, hasher, logger.Component(log, "accounts"))
	authService := service.NewAuthService(store.Accounts(), hasher, cfg.JWTSecret, cfg.TokenTTL)
	catalogService := service.NewCatalogService(store, store.Items(), store.Images(), pagination.New(cfg.Shop.PageSize), logger.Component(log, "catalog"))
	cartService := service.NewCartService(store.Carts(), store.Items(), logger.Component(log, "cart"))
	orderService := service.NewOrderService(store, store.Orders(), store.Items(), locker, dispatcher, cfg.Checkout.LockTTL, logger.Component(log, "orders"))

	if cfg.InitDB {
		if err := bootstrap.NewSeeder(accountService, catalogService, logger.Component(log, "seed")).Seed(ctx); err != nil {
			return err
		}
	}

	deps := api.Dependencies{
		Auth:      authService,
		Accounts:  accountService,
		Orders:    orderService,
		Catalog:   catalogService,
		Carts:     cartService,
		Mongo:     client,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	}
	if rdb != nil {
		deps.Redis = rdb
	}
	e := api.NewRouter(deps)

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
