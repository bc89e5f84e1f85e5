// Package identity verifies sign-in credentials from the supported auth
// schemes and reduces them to a provider-neutral Identity.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/shopper-backend/pkg/config"
)

// Scheme names an auth scheme.
type Scheme string

const (
	SchemeGoogle Scheme = config.AuthSchemeGoogle
	SchemeDev    Scheme = config.AuthSchemeDev
)

// Identity is what a verified credential tells us about the caller.
type Identity struct {
	Scheme        Scheme
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// Verifier checks a raw credential and returns the caller's identity. Errors
// are *errors.Error with CodeUnauthorized for bad credentials and
// CodeDependency when the provider cannot be reached.
type Verifier interface {
	Scheme() Scheme
	Verify(ctx context.Context, token string) (Identity, error)
}

// New builds the verifier selected by configuration.
func New(ctx context.Context, app config.AppConfig, cfg config.AuthConfig) (Verifier, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(cfg.Scheme))) {
	case SchemeGoogle:
		return NewGoogleVerifier(ctx, cfg.GoogleClientID)
	case SchemeDev:
		if !app.IsDev() {
			return nil, fmt.Errorf("dev auth scheme requires the dev environment")
		}
		return DevVerifier{}, nil
	default:
		return nil, fmt.Errorf("unsupported auth scheme %q", cfg.Scheme)
	}
}
