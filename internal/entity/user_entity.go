package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser          UserRole = "USER"
	UserRoleTrainer       UserRole = "TRENER"
	UserRoleAdministrator UserRole = "ADMINISTRATOR"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleUser, UserRoleTrainer, UserRoleAdministrator:
		return true
	}
	return false
}

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RefreshToken is stored hashed. The plain token only ever lives in the client.
type RefreshToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	IpAddress string
	UserAgent string
	CreatedAt time.Time
}

func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
