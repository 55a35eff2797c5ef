package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"

	"github.com/google/uuid"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return contract.ErrDuplicate
		}
	}
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.data.users[user.Id] = *user
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.UpdatedAt = r.s.now()
	r.s.data.users[user.Id] = *user
	return nil
}

func (r *userRepository) FindById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.data.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *userRepository) FindAll(ctx context.Context, filter contract.UserFilter) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := []*entity.User{}
	for _, u := range r.s.data.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.ActiveOnly && !u.IsActive {
			continue
		}
		found := u
		users = append(users, &found)
	}
	sort.Slice(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.FirstName < b.FirstName
	})
	return users, nil
}

func (r *userRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.data.refreshTokens[token.TokenHash]; exists {
		return contract.ErrDuplicate
	}
	if token.Id == uuid.Nil {
		token.Id = uuid.New()
	}
	token.CreatedAt = r.s.now()
	r.s.data.refreshTokens[token.TokenHash] = *token
	return nil
}

func (r *userRepository) FindRefreshToken(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.data.refreshTokens[tokenHash]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r *userRepository) DeleteRefreshToken(ctx context.Context, userId uuid.UUID, tokenHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.data.refreshTokens[tokenHash]; ok && t.UserId == userId {
		delete(r.s.data.refreshTokens, tokenHash)
	}
	return nil
}

func (r *userRepository) DeleteAllRefreshTokens(ctx context.Context, userId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for hash, t := range r.s.data.refreshTokens {
		if t.UserId == userId {
			delete(r.s.data.refreshTokens, hash)
		}
	}
	return nil
}

// RefreshTokenCount is a test helper.
func (s *Store) RefreshTokenCount(userId uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.data.refreshTokens {
		if t.UserId == userId {
			n++
		}
	}
	return n
}
