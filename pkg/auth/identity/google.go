package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var googleIssuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

type tokenValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier validates Google Sign-In ID tokens against the app's OAuth
// client id.
type GoogleVerifier struct {
	validator tokenValidator
	audience  string
}

// NewGoogleVerifier builds a verifier that fetches Google's signing certs over
// plain HTTP; no service credentials are needed to validate ID tokens.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("google client id is required")
	}
	validator, err := idtoken.NewValidator(ctx, option.WithHTTPClient(http.DefaultClient))
	if err != nil {
		return nil, fmt.Errorf("building google id token validator: %w", err)
	}
	return &GoogleVerifier{validator: validator, audience: clientID}, nil
}

func (v *GoogleVerifier) Scheme() Scheme { return SchemeGoogle }

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "id token is required")
	}

	payload, err := v.validator.Validate(ctx, token, v.audience)
	if err != nil {
		if ctx.Err() != nil {
			return Identity{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "google token validation interrupted")
		}
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid google id token")
	}
	if _, ok := googleIssuers[payload.Issuer]; !ok {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "unexpected token issuer")
	}
	if strings.TrimSpace(payload.Subject) == "" {
		return Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token is missing subject")
	}

	return Identity{
		Scheme:        SchemeGoogle,
		Subject:       payload.Subject,
		Email:         claimString(payload.Claims, "email"),
		EmailVerified: claimBool(payload.Claims, "email_verified"),
		Name:          claimString(payload.Claims, "name"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func claimBool(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}
