package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/pkg/db/models"
)

// View is the profile shape returned by the API. Password material
// never leaves the service layer.
type View struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModel maps a profile row to the API view.
func FromModel(profile *models.Profile) View {
	return View{
		UserID:    profile.UserID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Phone:     profile.Phone,
		Address:   profile.Address,
		IsAdmin:   profile.IsAdmin,
		CreatedAt: profile.CreatedAt,
	}
}

// UpdateProfileInput carries partial profile edits.
type UpdateProfileInput struct {
	FullName *string
	Phone    *string
	Address  *string
}
