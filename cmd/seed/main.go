package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/angelmondragon/shopper-backend/internal/events"
	"github.com/angelmondragon/shopper-backend/internal/products"
	"github.com/angelmondragon/shopper-backend/internal/stores"
	"github.com/angelmondragon/shopper-backend/internal/users"
	"github.com/angelmondragon/shopper-backend/pkg/config"
	"github.com/angelmondragon/shopper-backend/pkg/db"
	"github.com/angelmondragon/shopper-backend/pkg/logger"
	"github.com/angelmondragon/shopper-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.subject, "subject", "seed-user", "external auth id of the demo user")
	flag.StringVar(&opts.email, "email", "seed@example.com", "email of the demo user")
	flag.Float64Var(&opts.lat, "lat", 40.7128, "latitude the demo stores are placed around")
	flag.Float64Var(&opts.lng, "lon", -74.0060, "longitude the demo stores are placed around")
	flag.IntVar(&opts.stores, "stores", 5, "number of demo stores")
	flag.Float64Var(&opts.spacing, "spacing", 25, "meters between consecutive demo stores")
	flag.IntVar(&opts.products, "products", 3, "number of demo products linked to every store")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	if err := run(context.Background(), cfg, logg, opts); err != nil {
		logg.Error(context.Background(), "seed failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts options) (err error) {
	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, client.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		return err
	}

	s, err := newSeeder(client, events.NewEmitter(events.Noop{}, logg))
	if err != nil {
		return err
	}

	result, err := s.seed(ctx, opts)
	if err != nil {
		return err
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"user_id":  result.userID.String(),
		"stores":   len(result.storeIDs),
		"products": len(result.productIDs),
		"links":    result.links,
	}), "seed completed")
	return nil
}

func newSeeder(client *db.Client, emitter *events.Emitter) (*seeder, error) {
	usersService, err := users.NewService(users.NewRepository(client.DB()))
	if err != nil {
		return nil, err
	}
	storesService, err := stores.NewService(stores.ServiceParams{
		Repo:   stores.NewRepository(client.DB()),
		Tx:     client,
		Events: emitter,
	})
	if err != nil {
		return nil, err
	}
	productsService, err := products.NewService(products.NewRepository(client.DB()), client, emitter)
	if err != nil {
		return nil, err
	}
	return &seeder{users: usersService, stores: storesService, products: productsService}, nil
}
