package dto

import "kupanga_backend/internal/models"

// RegisterRequest creates an account from just an email and a role. The
// account gets a provisional password by email and is claimed later
// through profile completion.
type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the access token. The refresh token travels only
// in the HTTP-only cookie set by the handler.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
}

// LoginResult is the service-level outcome of a login: the handler turns
// RefreshToken into the cookie and returns only AccessToken in the body.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
}

// CompleteProfileRequest claims a provisioned account: the user proves
// the provisional password, picks their final role and fills the profile.
// Bound from multipart form fields; the avatar file part is handled
// separately.
type CompleteProfileRequest struct {
	Email     string `form:"email" validate:"required,email"`
	Password  string `form:"password" validate:"required"`
	FirstName string `form:"firstName" validate:"required"`
	LastName  string `form:"lastName" validate:"required"`
	Role      string `form:"role" validate:"required"`
}

type CompleteProfileResult struct {
	User         *UserResponse
	AccessToken  string
	RefreshToken string
}

type CompleteProfileResponse struct {
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"accessToken"`
}

type UserResponse struct {
	ID                  string          `json:"id"`
	Email               string          `json:"email"`
	Role                models.UserRole `json:"role"`
	FirstName           string          `json:"firstName"`
	LastName            string          `json:"lastName"`
	HasCompletedProfile bool            `json:"hasCompletedProfile"`
	AvatarURL           string          `json:"avatarUrl,omitempty"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		Role:                u.Role,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		HasCompletedProfile: u.HasCompletedProfile,
		AvatarURL:           u.AvatarURL,
	}
}
