package controllers

import (
	"net/http"

	"github.com/angelmondragon/shopper-backend/api/responses"
	"github.com/angelmondragon/shopper-backend/api/validators"
	"github.com/angelmondragon/shopper-backend/internal/auth"
	"github.com/angelmondragon/shopper-backend/pkg/logger"
)

// AuthGoogle exchanges a Google ID token for first-party tokens.
func AuthGoogle(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("auth service"))
			return
		}

		var body auth.SignInRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SignIn(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithUserID(r.Context(), result.User.ID.String())
			logg.Info(ctx, "auth.signed_in")
		}
		responses.WriteSuccess(w, result)
	}
}
