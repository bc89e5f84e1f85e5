package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/shopper-backend/internal/users"
	pkgAuth "github.com/angelmondragon/shopper-backend/pkg/auth"
	"github.com/angelmondragon/shopper-backend/pkg/auth/identity"
	"github.com/angelmondragon/shopper-backend/pkg/auth/session"
	"github.com/angelmondragon/shopper-backend/pkg/config"
	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
)

// Service exchanges provider credentials for first-party tokens.
type Service interface {
	SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error)
}

type userRegistry interface {
	FindOrCreateByExternalAuthID(ctx context.Context, externalAuthID, email string) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Verifier       identity.Verifier
	Users          userRegistry
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

type service struct {
	verifier identity.Verifier
	users    userRegistry
	session  sessionManager
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Verifier == nil {
		return nil, fmt.Errorf("identity verifier required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user registry required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		verifier: params.Verifier,
		users:    params.Users,
		session:  params.SessionManager,
		jwtCfg:   params.JWTConfig,
		now:      time.Now,
	}, nil
}

// SignIn verifies the credential, finds or creates the user keyed by the
// provider subject, and opens a refresh session bound to the new access token.
func (s *service) SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error) {
	if req.IDToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id_token is required")
	}

	ident, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "verify credential")
	}
	if ident.Subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "credential has no subject")
	}

	email := ident.Email
	if ident.Scheme == identity.SchemeGoogle && !ident.EmailVerified {
		email = ""
	}

	user, err := s.users.FindOrCreateByExternalAuthID(ctx, ident.Subject, email)
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &SignInResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
		Scheme:       string(s.verifier.Scheme()),
	}, nil
}
