// Package dbtest opens throwaway SQLite databases with the full schema for
// repository and service tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/shopper-backend/pkg/config"
	"github.com/angelmondragon/shopper-backend/pkg/db"
	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	"github.com/angelmondragon/shopper-backend/pkg/enums"
	"github.com/google/uuid"
)

// Open returns a client over a private in-memory database. A single pooled
// connection keeps every statement on the same database.
func Open(t testing.TB) *db.Client {
	t.Helper()

	cfg := config.DBConfig{
		SQLitePath:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	client, err := db.New(context.Background(), cfg, true, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(models.All()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return client
}

func MustCreateUser(t testing.TB, client *db.Client) *models.User {
	t.Helper()
	user := &models.User{
		ID:             uuid.New(),
		Email:          fmt.Sprintf("shopper_%s@example.com", uuid.NewString()[:8]),
		ExternalAuthID: "sub-" + uuid.NewString(),
	}
	if err := client.DB().Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func MustCreateStore(t testing.TB, client *db.Client, ownerID uuid.UUID, name string, lat, lng float64) *models.Store {
	t.Helper()
	store := &models.Store{
		ID:              uuid.New(),
		Name:            name,
		Latitude:        lat,
		Longitude:       lng,
		CreatedByUserID: ownerID,
	}
	if err := client.DB().Create(store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func MustTrackStore(t testing.TB, client *db.Client, userID, storeID uuid.UUID, label string) *models.UserStore {
	t.Helper()
	link := &models.UserStore{
		ID:      uuid.New(),
		UserID:  userID,
		StoreID: storeID,
		Name:    label,
	}
	if err := client.DB().Create(link).Error; err != nil {
		t.Fatalf("track store: %v", err)
	}
	return link
}

func MustCreateProduct(t testing.TB, client *db.Client, ownerID uuid.UUID, name string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:     uuid.New(),
		Name:   name,
		UserID: ownerID,
		Status: enums.ProductStatusActive,
	}
	if err := client.DB().Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
