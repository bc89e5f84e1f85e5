package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/shopper-backend/api/middleware"
	"github.com/angelmondragon/shopper-backend/internal/auth"
	"github.com/angelmondragon/shopper-backend/internal/catalog"
	"github.com/angelmondragon/shopper-backend/internal/products"
	"github.com/angelmondragon/shopper-backend/internal/proximity"
	"github.com/angelmondragon/shopper-backend/internal/stores"
	"github.com/angelmondragon/shopper-backend/pkg/geo"
)

func newRequest(method, target, body string, userID *uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), *userID))
	}
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

type stubResolver struct {
	ids        []uuid.UUID
	matches    []proximity.Match
	err        error
	gotUser    uuid.UUID
	gotPoint   geo.Point
	gotRadius  float64
	gotQuery   proximity.Query
	userCalls  int
	queryCalls int
}

func (s *stubResolver) FindStoresWithinRadiusOfUser(_ context.Context, userID uuid.UUID, location geo.Point, radius float64) ([]uuid.UUID, error) {
	s.userCalls++
	s.gotUser, s.gotPoint, s.gotRadius = userID, location, radius
	return s.ids, s.err
}

func (s *stubResolver) Nearby(_ context.Context, q proximity.Query) ([]proximity.Match, error) {
	s.queryCalls++
	s.gotQuery = q
	return s.matches, s.err
}

type stubStoreService struct {
	dto      *stores.StoreDTO
	link     *stores.UserStoreDTO
	err      error
	gotInput stores.CreateStoreInput
	gotName  string
}

func (s *stubStoreService) CreateStore(_ context.Context, input stores.CreateStoreInput) (*stores.StoreDTO, error) {
	s.gotInput = input
	return s.dto, s.err
}

func (s *stubStoreService) GetByID(context.Context, uuid.UUID) (*stores.StoreDTO, error) {
	return s.dto, s.err
}

func (s *stubStoreService) GetStoreLocation(context.Context, uuid.UUID) (geo.Point, error) {
	return geo.Point{}, s.err
}

func (s *stubStoreService) ListStoresForUser(context.Context, uuid.UUID) ([]stores.TrackedStoreDTO, error) {
	return nil, s.err
}

func (s *stubStoreService) TrackStore(_ context.Context, _, _ uuid.UUID, name string) (*stores.UserStoreDTO, error) {
	s.gotName = name
	return s.link, s.err
}

type stubProductService struct {
	dto         *products.ProductDTO
	created     int64
	err         error
	gotInput    products.CreateProductInput
	gotStores   []uuid.UUID
	gotProducts []uuid.UUID
}

func (s *stubProductService) CreateProduct(_ context.Context, _ uuid.UUID, input products.CreateProductInput) (*products.ProductDTO, error) {
	s.gotInput = input
	return s.dto, s.err
}

func (s *stubProductService) ListByUser(context.Context, uuid.UUID) ([]products.ProductDTO, error) {
	return nil, s.err
}

func (s *stubProductService) CreateStoreProducts(_ context.Context, _ uuid.UUID, storeIDs, productIDs []uuid.UUID) (int64, error) {
	s.gotStores, s.gotProducts = storeIDs, productIDs
	return s.created, s.err
}

type stubCatalogService struct {
	result *catalog.Catalog
	err    error
}

func (s stubCatalogService) GetCompleteStoreAndProductData(context.Context, uuid.UUID) (*catalog.Catalog, error) {
	return s.result, s.err
}

type stubAuthService struct {
	resp *auth.SignInResponse
	err  error
	got  auth.SignInRequest
}

func (s *stubAuthService) SignIn(_ context.Context, req auth.SignInRequest) (*auth.SignInResponse, error) {
	s.got = req
	return s.resp, s.err
}

type stubRotator struct {
	newAccessID  string
	newRefresh   string
	rotateErr    error
	revokeErr    error
	rotatedFrom  string
	revokedID    string
	providedSeen string
}

func (s *stubRotator) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	s.rotatedFrom, s.providedSeen = oldAccessID, provided
	return s.newAccessID, s.newRefresh, s.rotateErr
}

func (s *stubRotator) Revoke(_ context.Context, accessID string) error {
	s.revokedID = accessID
	return s.revokeErr
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }
