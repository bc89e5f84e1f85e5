package users

import (
	"context"
	"strings"

	"github.com/angelmondragon/shopper-backend/pkg/db"
	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const externalAuthIDConstraint = "users_external_auth_id_key"

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByExternalAuthID(ctx context.Context, externalAuthID string) (*models.User, error)
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
}

// Service is the user registry.
type Service interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByExternalAuthID(ctx context.Context, externalAuthID string) (*models.User, error)
	FindOrCreateByExternalAuthID(ctx context.Context, externalAuthID, email string) (*models.User, error)
}

type service struct {
	repo     userRepository
	validate *validator.Validate
}

func NewService(repo userRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "users repository required")
	}
	return &service{repo: repo, validate: validator.New()}, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return user, nil
}

func (s *service) FindByExternalAuthID(ctx context.Context, externalAuthID string) (*models.User, error) {
	externalAuthID = strings.TrimSpace(externalAuthID)
	if externalAuthID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "external auth id is required")
	}
	user, err := s.repo.FindByExternalAuthID(ctx, externalAuthID)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return user, nil
}

// FindOrCreateByExternalAuthID is idempotent. When two sign-ins race, the loser
// of the insert reads back the winner's row.
func (s *service) FindOrCreateByExternalAuthID(ctx context.Context, externalAuthID, email string) (*models.User, error) {
	externalAuthID = strings.TrimSpace(externalAuthID)
	if externalAuthID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "external auth id is required")
	}
	email = s.normalizeEmail(email)

	existing, err := s.repo.FindByExternalAuthID(ctx, externalAuthID)
	switch {
	case err == nil:
		if email != "" && existing.Email != email {
			if err := s.repo.UpdateEmail(ctx, existing.ID, email); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user email")
			}
			existing.Email = email
		}
		return existing, nil
	case !db.IsNotFound(err):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	user := &models.User{
		ID:             uuid.New(),
		Email:          email,
		ExternalAuthID: externalAuthID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if !db.IsUniqueViolation(err, externalAuthIDConstraint) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		winner, findErr := s.repo.FindByExternalAuthID(ctx, externalAuthID)
		if findErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "reload user after conflict")
		}
		return winner, nil
	}
	return user, nil
}

// normalizeEmail keeps well-formed addresses and drops anything else; the
// provider subject is the identity, email is informational.
func (s *service) normalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || s.validate.Var(email, "email") != nil {
		return ""
	}
	return email
}

func mapLookupError(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
}
