package service

import (
	"testing"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfile(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store)

	profile, err := svc.GetProfile(f.ctx, f.user.Id)
	require.NoError(t, err)
	assert.Equal(t, f.user.Email, profile.Email)

	phone := "+48 600 100 200"
	name := " Janusz "
	updated, err := svc.UpdateProfile(f.ctx, f.user.Id, &dto.UpdateProfileRequest{FirstName: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Janusz", updated.FirstName)
	assert.Equal(t, "Kowalski", updated.LastName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	_, err = svc.GetProfile(f.ctx, uuid.New())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
