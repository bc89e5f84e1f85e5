package auth

import "github.com/angelmondragon/shopper-backend/internal/users"

// SignInRequest carries the credential issued by the identity provider.
type SignInRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// SignInResponse is returned after a successful credential exchange.
type SignInResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
	Scheme       string         `json:"scheme"`
}
