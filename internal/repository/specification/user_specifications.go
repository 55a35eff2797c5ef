package specification

import (
	"strings"

	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(email) = ?", strings.ToLower(s.Email))
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ByRole struct {
	Role string
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}

type ActiveUsers struct{}

func (s ActiveUsers) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type ByTokenHash struct {
	Hash string
}

func (s ByTokenHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token_hash = ?", s.Hash)
}
