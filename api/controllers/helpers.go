package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/shopper-backend/api/middleware"
	pkgerrors "github.com/angelmondragon/shopper-backend/pkg/errors"
)

func requireUser(r *http.Request) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return userID, nil
}

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" unavailable")
}
