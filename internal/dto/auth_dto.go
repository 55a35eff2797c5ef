package dto

type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,strongpassword"`
	FirstName string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string  `json:"lastName" validate:"required,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strongpassword"`
}

type AuthResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	User         UserDTO `json:"user"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type ChangePasswordResponse struct {
	RequiresRelogin bool `json:"requiresRelogin"`
}

// ClientInfo is recorded on issued refresh tokens.
type ClientInfo struct {
	IpAddress string
	UserAgent string
}
