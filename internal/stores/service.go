package stores

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/shopper-backend/internal/events"
	"github.com/angelmondragon/shopper-backend/pkg/db"
	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/angelmondragon/shopper-backend/pkg/geo"
	"github.com/angelmondragon/shopper-backend/pkg/maps"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxNameLength             = 200
	userStoreUniqueConstraint = "user_stores_user_id_store_id_key"
)

type storeRepository interface {
	CreateWithTx(tx *gorm.DB, store *models.Store, creatorLink *models.UserStore) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	ListTrackedByUser(ctx context.Context, userID uuid.UUID) ([]TrackedStoreRow, error)
	CreateUserStoreWithTx(tx *gorm.DB, link *models.UserStore) error
	UserExistsWithTx(tx *gorm.DB, id uuid.UUID) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type placeResolver interface {
	ResolvePlace(ctx context.Context, placeID string) (*maps.Place, error)
}

// Service is the store registry.
type Service interface {
	CreateStore(ctx context.Context, input CreateStoreInput) (*StoreDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	GetStoreLocation(ctx context.Context, id uuid.UUID) (geo.Point, error)
	ListStoresForUser(ctx context.Context, userID uuid.UUID) ([]TrackedStoreDTO, error)
	TrackStore(ctx context.Context, userID, storeID uuid.UUID, name string) (*UserStoreDTO, error)
}

// ServiceParams bundles the store service dependencies. Places and Events are
// optional.
type ServiceParams struct {
	Repo   storeRepository
	Tx     txRunner
	Places placeResolver
	Events *events.Emitter
}

type service struct {
	repo   storeRepository
	tx     txRunner
	places placeResolver
	events *events.Emitter
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:   params.Repo,
		tx:     params.Tx,
		places: params.Places,
		events: params.Events,
	}, nil
}

// CreateStore registers a store and makes the creator track it under the
// store's name, so it shows up in the creator's scoped nearby queries.
func (s *service) CreateStore(ctx context.Context, input CreateStoreInput) (*StoreDTO, error) {
	if input.OwnerUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner user id is required")
	}

	name := strings.TrimSpace(input.Name)
	location, placeName, err := s.resolveLocation(ctx, input)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = placeName
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	store := &models.Store{
		ID:              uuid.New(),
		Name:            name,
		Latitude:        location.Lat,
		Longitude:       location.Lng,
		CreatedByUserID: input.OwnerUserID,
	}
	link := &models.UserStore{
		ID:      uuid.New(),
		UserID:  input.OwnerUserID,
		StoreID: store.ID,
		Name:    name,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.requireUser(tx, input.OwnerUserID); err != nil {
			return err
		}
		return s.repo.CreateWithTx(tx, store, link)
	}); err != nil {
		return nil, mapWriteError(err, "create store")
	}

	s.events.Emit(ctx, events.TypeStoreCreated, events.StoreCreated{
		StoreID:         store.ID,
		Name:            store.Name,
		Lat:             store.Latitude,
		Lng:             store.Longitude,
		CreatedByUserID: store.CreatedByUserID,
	})

	return FromModel(store), nil
}

func (s *service) resolveLocation(ctx context.Context, input CreateStoreInput) (geo.Point, string, error) {
	if input.Location != nil {
		if err := input.Location.Validate(); err != nil {
			return geo.Point{}, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store location")
		}
		return *input.Location, "", nil
	}

	placeID := strings.TrimSpace(input.PlaceID)
	if placeID == "" {
		return geo.Point{}, "", pkgerrors.New(pkgerrors.CodeValidation, "either a location or a place id is required")
	}
	if s.places == nil {
		return geo.Point{}, "", pkgerrors.New(pkgerrors.CodeValidation, "place lookup is not configured")
	}

	place, err := s.places.ResolvePlace(ctx, placeID)
	if err != nil {
		return geo.Point{}, "", err
	}
	if err := place.Location.Validate(); err != nil {
		return geo.Point{}, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place returned invalid coordinates")
	}
	return place.Location, strings.TrimSpace(place.DisplayName), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return FromModel(store), nil
}

func (s *service) GetStoreLocation(ctx context.Context, id uuid.UUID) (geo.Point, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return geo.Point{}, mapLookupError(err)
	}
	return geo.NewPoint(store.Latitude, store.Longitude), nil
}

func (s *service) ListStoresForUser(ctx context.Context, userID uuid.UUID) ([]TrackedStoreDTO, error) {
	rows, err := s.repo.ListTrackedByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tracked stores")
	}
	out := make([]TrackedStoreDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromTrackedRow(row))
	}
	return out, nil
}

// TrackStore adds a store to the user's list. The label defaults to the store
// name.
func (s *service) TrackStore(ctx context.Context, userID, storeID uuid.UUID, name string) (*UserStoreDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, mapLookupError(err)
	}

	label := strings.TrimSpace(name)
	if label == "" {
		label = store.Name
	}
	if len(label) > maxNameLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}

	link := &models.UserStore{
		ID:      uuid.New(),
		UserID:  userID,
		StoreID: store.ID,
		Name:    label,
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.requireUser(tx, userID); err != nil {
			return err
		}
		return s.repo.CreateUserStoreWithTx(tx, link)
	}); err != nil {
		if db.IsUniqueViolation(err, userStoreUniqueConstraint) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "store already tracked")
		}
		return nil, mapWriteError(err, "track store")
	}

	s.events.Emit(ctx, events.TypeStoreTracked, events.StoreTracked{
		StoreID: store.ID,
		UserID:  userID,
		Name:    label,
	})

	return FromUserStoreModel(link), nil
}

// requireUser fails with NOT_FOUND when the referenced user does not exist.
func (s *service) requireUser(tx *gorm.DB, userID uuid.UUID) error {
	ok, err := s.repo.UserExistsWithTx(tx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if len(name) > maxNameLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("store name must be at most %d characters", maxNameLength))
	}
	return nil
}

// mapWriteError keeps typed errors, reports a dangling reference as NOT_FOUND
// and treats anything else as a storage failure.
func mapWriteError(err error, op string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if db.IsForeignKeyViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "referenced record not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func mapLookupError(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup store")
}
