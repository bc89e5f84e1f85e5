package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopper-backend/internal/products"
	"github.com/angelmondragon/shopper-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
)

func TestProductCreate(t *testing.T) {
	userID := uuid.New()
	svc := &stubProductService{dto: &products.ProductDTO{ID: uuid.New(), Name: "Milk", Status: enums.ProductStatusActive, UserID: userID}}

	rec := httptest.NewRecorder()
	body := `{"name":"Milk","description":"2%","status":"ACTIVE","sponsored":true}`
	ProductCreate(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/product", body, &userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotInput.Name != "Milk" || svc.gotInput.Status != "ACTIVE" || !svc.gotInput.Sponsored {
		t.Fatalf("unexpected input %+v", svc.gotInput)
	}
}

func TestProductCreateRejections(t *testing.T) {
	userID := uuid.New()

	rec := httptest.NewRecorder()
	ProductCreate(&stubProductService{}, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/", `{"description":"x"}`, &userID))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	ProductCreate(&stubProductService{}, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/", `{"name":"x"}`, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", rec.Code)
	}
}

func TestStoreProductsCreate(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()
	productID := uuid.New()
	svc := &stubProductService{created: 1}

	rec := httptest.NewRecorder()
	body := fmt.Sprintf(`{"store_ids":[%q],"product_ids":[%q]}`, storeID, productID)
	StoreProductsCreate(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/store-products", body, &userID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.gotStores) != 1 || svc.gotStores[0] != storeID || svc.gotProducts[0] != productID {
		t.Fatalf("unexpected ids %v %v", svc.gotStores, svc.gotProducts)
	}

	var envelope struct {
		Data struct {
			Created int64 `json:"created"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Created != 1 {
		t.Fatalf("expected created=1, got %d", envelope.Data.Created)
	}
}

func TestStoreProductsCreateRejections(t *testing.T) {
	userID := uuid.New()
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "empty stores", body: fmt.Sprintf(`{"store_ids":[],"product_ids":[%q]}`, uuid.New()), status: http.StatusBadRequest},
		{name: "malformed id", body: `{"store_ids":["nope"],"product_ids":["nope"]}`, status: http.StatusBadRequest},
		{name: "foreign product", body: fmt.Sprintf(`{"store_ids":[%q],"product_ids":[%q]}`, uuid.New(), uuid.New()),
			err: pkgerrors.New(pkgerrors.CodeForbidden, "product not owned"), status: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			StoreProductsCreate(&stubProductService{err: tt.err}, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/", tt.body, &userID))
			if rec.Code != tt.status {
				t.Fatalf("expected %d got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}
