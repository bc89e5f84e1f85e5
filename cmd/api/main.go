package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/shopper-backend/api"
	"github.com/angelmondragon/shopper-backend/api/controllers"
	"github.com/angelmondragon/shopper-backend/api/routes"
	"github.com/angelmondragon/shopper-backend/internal/auth"
	"github.com/angelmondragon/shopper-backend/internal/catalog"
	"github.com/angelmondragon/shopper-backend/internal/events"
	"github.com/angelmondragon/shopper-backend/internal/products"
	"github.com/angelmondragon/shopper-backend/internal/proximity"
	"github.com/angelmondragon/shopper-backend/internal/stores"
	"github.com/angelmondragon/shopper-backend/internal/users"
	"github.com/angelmondragon/shopper-backend/pkg/auth/identity"
	"github.com/angelmondragon/shopper-backend/pkg/auth/session"
	"github.com/angelmondragon/shopper-backend/pkg/bigquery"
	"github.com/angelmondragon/shopper-backend/pkg/config"
	"github.com/angelmondragon/shopper-backend/pkg/db"
	"github.com/angelmondragon/shopper-backend/pkg/instance"
	"github.com/angelmondragon/shopper-backend/pkg/logger"
	"github.com/angelmondragon/shopper-backend/pkg/maps"
	"github.com/angelmondragon/shopper-backend/pkg/metrics"
	"github.com/angelmondragon/shopper-backend/pkg/migrate"
	"github.com/angelmondragon/shopper-backend/pkg/pubsub"
	"github.com/angelmondragon/shopper-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Fields:      map[string]any{"instance": instance.GetID(), "env": cfg.App.Env},
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	closers = append(closers, redisClient.Close)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return err
	}

	verifier, err := identity.New(ctx, cfg.App, cfg.Auth)
	if err != nil {
		return err
	}

	emitter, closePubSub, err := newEmitter(ctx, cfg, logg)
	if err != nil {
		return err
	}
	closers = append(closers, closePubSub)

	var places *maps.Client
	if cfg.GoogleMaps.APIKey != "" {
		places, err = maps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			return err
		}
	}

	usersService, err := users.NewService(users.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	storeParams := stores.ServiceParams{
		Repo:   stores.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Events: emitter,
	}
	if places != nil {
		storeParams.Places = places
	}
	storesService, err := stores.NewService(storeParams)
	if err != nil {
		return err
	}

	productsService, err := products.NewService(products.NewRepository(dbClient.DB()), dbClient, emitter)
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(storesService, productsService, catalog.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Verifier:       verifier,
		Users:          usersService,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return err
	}

	registry := metrics.NewRegistry()

	locator, err := proximity.NewLocator(cfg.Proximity.Strategy, dbClient)
	if err != nil {
		return err
	}
	resolver, err := proximity.NewResolver(locator, metrics.NewProximityMetrics(registry), logg)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:          controllers.Pinger(dbClient),
		Redis:       controllers.Pinger(redisClient),
		RateLimiter: redisClient,
		Sessions:    sessionManager,
		Auth:        authService,
		Stores:      storesService,
		Products:    productsService,
		Catalog:     catalogService,
		Proximity:   resolver,
		Gatherer:    registry,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := api.NewServer(cfg.HTTP, addr, handler)

	logCtx := logg.WithFields(ctx, map[string]any{
		"addr":      addr,
		"proximity": resolver.Strategy(),
		"auth":      string(verifier.Scheme()),
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serveErr
}

// newEmitter publishes domain events to Pub/Sub and streams them into BigQuery
// for whichever sinks are configured, and drops them when neither is.
func newEmitter(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*events.Emitter, func() error, error) {
	var (
		sinks   events.Fanout
		closers []func() error
	)
	closeAll := func() error {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		return errs
	}

	if cfg.PubSub.Enabled() {
		client, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return nil, nil, err
		}
		publisher := client.EventsPublisher()
		closers = append(closers, func() error {
			if publisher != nil {
				publisher.Stop()
			}
			return client.Close()
		})
		sinks = append(sinks, events.NewPubSubPublisher(publisher))
	}

	if cfg.BigQuery.Enabled() {
		client, err := bigquery.NewClient(ctx, cfg.GCP, cfg.BigQuery, logg)
		if err != nil {
			return nil, nil, multierr.Append(err, closeAll())
		}
		closers = append(closers, client.Close)
		sinks = append(sinks, events.NewBigQueryPublisher(client, client.EventsTable()))
	}

	switch len(sinks) {
	case 0:
		return events.NewEmitter(events.Noop{}, logg), closeAll, nil
	case 1:
		return events.NewEmitter(sinks[0], logg), closeAll, nil
	default:
		return events.NewEmitter(sinks, logg), closeAll, nil
	}
}
