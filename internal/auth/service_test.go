package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/shopper-backend/pkg/auth"
	"github.com/angelmondragon/shopper-backend/pkg/auth/identity"
	"github.com/angelmondragon/shopper-backend/pkg/config"
	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubVerifier struct {
	scheme identity.Scheme
	ident  identity.Identity
	err    error
}

func (s stubVerifier) Scheme() identity.Scheme { return s.scheme }

func (s stubVerifier) Verify(context.Context, string) (identity.Identity, error) {
	return s.ident, s.err
}

type stubUsers struct {
	user     *models.User
	err      error
	gotSub   string
	gotEmail string
}

func (s *stubUsers) FindOrCreateByExternalAuthID(_ context.Context, sub, email string) (*models.User, error) {
	s.gotSub, s.gotEmail = sub, email
	return s.user, s.err
}

type stubSessions struct {
	accessIDs []string
	err       error
}

func (s *stubSessions) Generate(_ context.Context, accessID string) (string, error) {
	s.accessIDs = append(s.accessIDs, accessID)
	return "refresh-token", s.err
}

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "shopper", ExpirationMinutes: 30}

func buildService(t *testing.T, v identity.Verifier, u *stubUsers, s *stubSessions) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Verifier: v, Users: u, SessionManager: s, JWTConfig: testJWT})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestSignInMintsTokenBoundToSession(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@example.com", CreatedAt: time.Now()}
	users := &stubUsers{user: user}
	sessions := &stubSessions{}
	verifier := stubVerifier{
		scheme: identity.SchemeGoogle,
		ident:  identity.Identity{Scheme: identity.SchemeGoogle, Subject: "google-123", Email: "a@example.com", EmailVerified: true},
	}
	svc := buildService(t, verifier, users, sessions)

	resp, err := svc.SignIn(context.Background(), SignInRequest{IDToken: "id-token"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if users.gotSub != "google-123" || users.gotEmail != "a@example.com" {
		t.Fatalf("unexpected registry call sub=%q email=%q", users.gotSub, users.gotEmail)
	}
	if resp.RefreshToken != "refresh-token" || resp.User.ID != user.ID || resp.Scheme != "google" {
		t.Fatalf("unexpected response %+v", resp)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if len(sessions.accessIDs) != 1 || sessions.accessIDs[0] != claims.ID {
		t.Fatalf("session should be keyed by jti %q, got %v", claims.ID, sessions.accessIDs)
	}
}

func TestSignInDropsUnverifiedGoogleEmail(t *testing.T) {
	users := &stubUsers{user: &models.User{ID: uuid.New()}}
	verifier := stubVerifier{
		scheme: identity.SchemeGoogle,
		ident:  identity.Identity{Scheme: identity.SchemeGoogle, Subject: "sub", Email: "spoof@example.com"},
	}
	svc := buildService(t, verifier, users, &stubSessions{})
	if _, err := svc.SignIn(context.Background(), SignInRequest{IDToken: "x"}); err != nil {
		t.Fatal(err)
	}
	if users.gotEmail != "" {
		t.Fatalf("expected unverified email to be dropped, got %q", users.gotEmail)
	}
}

func TestSignInErrors(t *testing.T) {
	tests := []struct {
		name     string
		req      SignInRequest
		verifier stubVerifier
		users    *stubUsers
		sessions *stubSessions
		want     pkgerrors.Code
	}{
		{
			name: "missing token", req: SignInRequest{},
			verifier: stubVerifier{}, users: &stubUsers{}, sessions: &stubSessions{},
			want: pkgerrors.CodeValidation,
		},
		{
			name: "verifier rejects", req: SignInRequest{IDToken: "bad"},
			verifier: stubVerifier{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")},
			users:    &stubUsers{}, sessions: &stubSessions{},
			want: pkgerrors.CodeUnauthorized,
		},
		{
			name: "untyped verifier failure", req: SignInRequest{IDToken: "bad"},
			verifier: stubVerifier{err: errors.New("boom")},
			users:    &stubUsers{}, sessions: &stubSessions{},
			want: pkgerrors.CodeUnauthorized,
		},
		{
			name: "empty subject", req: SignInRequest{IDToken: "x"},
			verifier: stubVerifier{ident: identity.Identity{}},
			users:    &stubUsers{}, sessions: &stubSessions{},
			want: pkgerrors.CodeUnauthorized,
		},
		{
			name: "registry failure", req: SignInRequest{IDToken: "x"},
			verifier: stubVerifier{ident: identity.Identity{Subject: "s"}},
			users:    &stubUsers{err: pkgerrors.New(pkgerrors.CodeDependency, "db down")},
			sessions: &stubSessions{},
			want:     pkgerrors.CodeDependency,
		},
		{
			name: "session failure", req: SignInRequest{IDToken: "x"},
			verifier: stubVerifier{ident: identity.Identity{Subject: "s"}},
			users:    &stubUsers{user: &models.User{ID: uuid.New()}},
			sessions: &stubSessions{err: errors.New("redis down")},
			want:     pkgerrors.CodeDependency,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := buildService(t, tt.verifier, tt.users, tt.sessions)
			_, err := svc.SignIn(context.Background(), tt.req)
			if !pkgerrors.HasCode(err, tt.want) {
				t.Fatalf("expected %s, got %v", tt.want, err)
			}
		})
	}
}
