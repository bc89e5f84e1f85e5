package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/angelmondragon/shopper-backend/internal/products"
	"github.com/angelmondragon/shopper-backend/internal/stores"
	"github.com/angelmondragon/shopper-backend/pkg/db"
	"github.com/angelmondragon/shopper-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	storesSvc, err := stores.NewService(stores.ServiceParams{Repo: stores.NewRepository(client.DB()), Tx: client})
	require.NoError(t, err)
	productsSvc, err := products.NewService(products.NewRepository(client.DB()), client, nil)
	require.NoError(t, err)
	svc, err := NewService(storesSvc, productsSvc, NewRepository(client.DB()))
	require.NoError(t, err)
	return svc, client
}

func link(t *testing.T, client *db.Client, storeID, productID uuid.UUID) {
	t.Helper()
	require.NoError(t, client.DB().Create(&models.StoreProduct{ID: uuid.New(), StoreID: storeID, ProductID: productID}).Error)
}

func TestCatalogCrossLinksUserData(t *testing.T) {
	svc, client := newCatalog(t)
	user := dbtest.MustCreateUser(t, client)
	other := dbtest.MustCreateUser(t, client)

	home := dbtest.MustCreateStore(t, client, other.ID, "Grocer Official Name", 1, 1)
	dbtest.MustTrackStore(t, client, user.ID, home.ID, "My grocer")
	untracked := dbtest.MustCreateStore(t, client, other.ID, "Elsewhere", 2, 2)

	milk := dbtest.MustCreateProduct(t, client, user.ID, "Milk")
	bread := dbtest.MustCreateProduct(t, client, user.ID, "Bread")
	theirs := dbtest.MustCreateProduct(t, client, other.ID, "Not mine")

	link(t, client, home.ID, milk.ID)
	link(t, client, untracked.ID, bread.ID)
	link(t, client, home.ID, theirs.ID)

	cat, err := svc.GetCompleteStoreAndProductData(context.Background(), user.ID)
	require.NoError(t, err)

	require.Equal(t, []uuid.UUID{home.ID}, cat.Stores.IDs)
	require.Equal(t, "My grocer", cat.Stores.Data[home.ID].Name)
	require.Equal(t, []uuid.UUID{milk.ID}, cat.Stores.Data[home.ID].Products)

	require.ElementsMatch(t, []uuid.UUID{milk.ID, bread.ID}, cat.Products.IDs)
	require.Equal(t, []uuid.UUID{home.ID}, cat.Products.Data[milk.ID].Stores)
	require.Empty(t, cat.Products.Data[bread.ID].Stores)
	require.NotContains(t, cat.Products.Data, theirs.ID)
}

func TestCatalogEmptyUser(t *testing.T) {
	svc, _ := newCatalog(t)
	cat, err := svc.GetCompleteStoreAndProductData(context.Background(), uuid.New())
	require.NoError(t, err)

	body, err := json.Marshal(cat)
	require.NoError(t, err)
	require.JSONEq(t, `{"stores":{"ids":[],"data":{}},"products":{"ids":[],"data":{}}}`, string(body))
}

func TestCatalogRequiresUser(t *testing.T) {
	svc, _ := newCatalog(t)
	_, err := svc.GetCompleteStoreAndProductData(context.Background(), uuid.Nil)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
