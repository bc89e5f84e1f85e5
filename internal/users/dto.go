package users

import (
	"time"

	"github.com/angelmondragon/shopper-backend/pkg/db/models"
	"github.com/google/uuid"
)

// UserDTO is the transport shape of a user. The provider subject stays private.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
