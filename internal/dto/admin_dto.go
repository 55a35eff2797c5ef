package dto

type CreateTrainerRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	FirstName string  `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string  `json:"lastName" validate:"required,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Password  *string `json:"password" validate:"omitempty,strongpassword"`
}

type UpdateTrainerRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
}

// TrainerCreatedResponse carries the temporary password exactly once.
type TrainerCreatedResponse struct {
	User              UserDTO `json:"user"`
	TemporaryPassword string  `json:"temporaryPassword,omitempty"`
}

type PasswordResetResponse struct {
	TemporaryPassword string `json:"temporaryPassword"`
}
