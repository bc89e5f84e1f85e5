package identity

import (
	"context"
	"strings"

	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
)

// DevVerifier trusts the raw token as the subject. Only wired in the dev
// environment, for local clients without a Google account.
type DevVerifier struct{}

func (DevVerifier) Scheme() Scheme { return SchemeDev }

func (DevVerifier) Verify(_ context.Context, token string) (Identity, error) {
	subject := strings.TrimSpace(token)
	if subject == "" {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token is required")
	}
	return Identity{
		Scheme:  SchemeDev,
		Subject: subject,
		Email:   subject + "@dev.local",
	}, nil
}
