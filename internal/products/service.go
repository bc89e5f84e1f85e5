package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/shopper-backend/internal/events"
	"github.com/angelmondragon/shopper-backend/pkg/db"
	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	"github.com/angelmondragon/shopper-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxNameLength        = 200
	maxDescriptionLength = 2000
	// MaxAssociationPairs bounds stores × products in one request.
	MaxAssociationPairs = 1000
)

type productRepository interface {
	CreateWithTx(tx *gorm.DB, product *models.Product) error
	UserExistsWithTx(tx *gorm.DB, id uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
	FindByIDsWithTx(tx *gorm.DB, ids []uuid.UUID) ([]models.Product, error)
	ExistingStoreIDsWithTx(tx *gorm.DB, ids []uuid.UUID) ([]uuid.UUID, error)
	InsertStoreProductsWithTx(tx *gorm.DB, rows []models.StoreProduct) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the product registry.
type Service interface {
	CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]ProductDTO, error)
	CreateStoreProducts(ctx context.Context, ownerID uuid.UUID, storeIDs, productIDs []uuid.UUID) (int64, error)
}

type service struct {
	repo   productRepository
	tx     txRunner
	events *events.Emitter
}

func NewService(repo productRepository, tx txRunner, emitter *events.Emitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, events: emitter}, nil
}

func (s *service) CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner user id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if len(name) > maxNameLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product name must be at most %d characters", maxNameLength))
	}
	description := strings.TrimSpace(input.Description)
	if len(description) > maxDescriptionLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	status, err := enums.ParseProductStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product status")
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		UserID:      ownerID,
		Status:      status,
		Sponsored:   input.Sponsored,
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := s.repo.UserExistsWithTx(tx, ownerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return s.repo.CreateWithTx(tx, product)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// CreateStoreProducts links every product to every store in one transaction.
// Pairs that already exist are skipped; the return value counts new rows.
func (s *service) CreateStoreProducts(ctx context.Context, ownerID uuid.UUID, storeIDs, productIDs []uuid.UUID) (int64, error) {
	storeIDs = uniqueIDs(storeIDs)
	productIDs = uniqueIDs(productIDs)
	switch {
	case ownerID == uuid.Nil:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "owner user id is required")
	case len(storeIDs) == 0:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "at least one store id is required")
	case len(productIDs) == 0:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "at least one product id is required")
	case len(storeIDs)*len(productIDs) > MaxAssociationPairs:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("at most %d store/product pairs per request", MaxAssociationPairs))
	}

	var created int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		found, err := s.repo.FindByIDsWithTx(tx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
		}
		if err := checkOwnership(ownerID, productIDs, found); err != nil {
			return err
		}

		existing, err := s.repo.ExistingStoreIDsWithTx(tx, storeIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stores")
		}
		if missing := difference(storeIDs, existing); len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found").WithDetails(map[string]any{"store_ids": missing})
		}

		rows := make([]models.StoreProduct, 0, len(storeIDs)*len(productIDs))
		for _, storeID := range storeIDs {
			for _, productID := range productIDs {
				rows = append(rows, models.StoreProduct{ID: uuid.New(), StoreID: storeID, ProductID: productID})
			}
		}
		created, err = s.repo.InsertStoreProductsWithTx(tx, rows)
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "store or product removed concurrently")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert store products")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "associate store products")
		}
		return 0, err
	}

	s.events.Emit(ctx, events.TypeStoreProductsAssociated, events.StoreProductsAssociated{
		UserID:     ownerID,
		StoreIDs:   storeIDs,
		ProductIDs: productIDs,
		Created:    created,
	})
	return created, nil
}

func checkOwnership(ownerID uuid.UUID, requested []uuid.UUID, found []models.Product) error {
	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	var missing, foreign []uuid.UUID
	for _, id := range requested {
		p, ok := byID[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case p.UserID != ownerID:
			foreign = append(foreign, id)
		}
	}
	if len(foreign) > 0 {
		return pkgerrors.New(pkgerrors.CodeForbidden, "products belong to another user")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").WithDetails(map[string]any{"product_ids": missing})
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func difference(want, have []uuid.UUID) []uuid.UUID {
	present := make(map[uuid.UUID]struct{}, len(have))
	for _, id := range have {
		present[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range want {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
