// Package token issues and verifies the HS256 access and refresh tokens.
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalid   = errors.New("invalid token")
	ErrWrongType = errors.New("unexpected token type")
)

type Claims struct {
	UserId uuid.UUID
	Email  string
	Role   entity.UserRole
	Type   string
	Expiry time.Time
}

type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *Manager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

func (m *Manager) sign(user *entity.User, tokenType string, ttl time.Duration) (string, time.Time, error) {
	exp := m.now().Add(ttl)
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"email":   user.Email,
		"role":    string(user.Role),
		"type":    tokenType,
		"exp":     exp.Unix(),
	}
	// jti keeps two refresh tokens issued in the same second distinct.
	if tokenType == TypeRefresh {
		claims["jti"] = uuid.NewString()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (m *Manager) IssueAccess(user *entity.User) (string, error) {
	signed, _, err := m.sign(user, TypeAccess, m.accessTTL)
	return signed, err
}

func (m *Manager) IssueRefresh(user *entity.User) (string, time.Time, error) {
	return m.sign(user, TypeRefresh, m.refreshTTL)
}

// Parse verifies the signature and expiry and checks the token type.
func (m *Manager) Parse(raw, expectedType string) (*Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalid
	}

	tokenType, _ := mc["type"].(string)
	if tokenType != expectedType {
		return nil, ErrWrongType
	}

	rawId, _ := mc["user_id"].(string)
	userId, err := uuid.Parse(rawId)
	if err != nil {
		return nil, ErrInvalid
	}

	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)

	claims := &Claims{UserId: userId, Email: email, Role: entity.UserRole(role), Type: tokenType}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.Expiry = exp.Time
	}
	return claims, nil
}

// Hash is how refresh tokens are stored.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
