package service

import (
	"strings"
	"testing"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateTemporaryPassword(t *testing.T) {
	for i := 0; i < 20; i++ {
		pw, err := generateTemporaryPassword()
		require.NoError(t, err)
		require.Len(t, pw, passwordLength+len(passwordSuffix))
		assert.True(t, strings.HasSuffix(pw, passwordSuffix))
		for _, c := range pw[:passwordLength] {
			assert.True(t, strings.ContainsRune(passwordAlphabet, c), "unexpected %q", c)
		}
	}
}

func TestCreateTrainer(t *testing.T) {
	f := newFixture(t)
	queue := &jobQueue{}
	svc := NewAdminService(f.store, queue, f.log)

	res, err := svc.CreateTrainer(f.ctx, &dto.CreateTrainerRequest{Email: "Trener@Example.com", FirstName: "Adam", LastName: "Nowak"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.UserRoleTrainer), res.User.Role)
	assert.NotEmpty(t, res.TemporaryPassword)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, mailer.JobTrainerCredentials, queue.jobs[0].Kind)
	assert.Equal(t, res.TemporaryPassword, queue.jobs[0].Data["password"])

	stored, err := f.store.NewUnitOfWork(f.ctx).UserRepository().FindByEmail(f.ctx, "trener@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(res.TemporaryPassword)))

	_, err = svc.CreateTrainer(f.ctx, &dto.CreateTrainerRequest{Email: "trener@example.com", FirstName: "B", LastName: "C"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestCreateTrainerWithPasswordSendsNothing(t *testing.T) {
	f := newFixture(t)
	queue := &jobQueue{}
	svc := NewAdminService(f.store, queue, f.log)

	res, err := svc.CreateTrainer(f.ctx, &dto.CreateTrainerRequest{Email: "t@example.com", FirstName: "A", LastName: "B", Password: ptr("Password1!")})
	require.NoError(t, err)
	assert.Empty(t, res.TemporaryPassword)
	assert.Empty(t, queue.jobs)
}

func TestTrainerLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewAdminService(f.store, nil, f.log)
	created, err := svc.CreateTrainer(f.ctx, &dto.CreateTrainerRequest{Email: "t@example.com", FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	id := created.User.Id

	_, err = svc.UpdateTrainer(f.ctx, id, &dto.UpdateTrainerRequest{Email: ptr(f.user.Email)})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	updated, err := svc.UpdateTrainer(f.ctx, id, &dto.UpdateTrainerRequest{LastName: ptr("Zieliński")})
	require.NoError(t, err)
	assert.Equal(t, "Zieliński", updated.LastName)

	require.NoError(t, f.store.NewUnitOfWork(f.ctx).UserRepository().CreateRefreshToken(f.ctx, &entity.RefreshToken{
		UserId: id, TokenHash: "hash", ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.Equal(t, 1, f.store.RefreshTokenCount(id))

	deactivated, err := svc.SetTrainerActive(f.ctx, id, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)
	assert.Equal(t, 0, f.store.RefreshTokenCount(id))

	activated, err := svc.SetTrainerActive(f.ctx, id, true)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	reset, err := svc.ResetTrainerPassword(f.ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, created.TemporaryPassword, reset.TemporaryPassword)

	// Regular users are out of reach of the trainer endpoints.
	_, err = svc.SetTrainerActive(f.ctx, f.user.Id, false)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	trainers, err := svc.ListTrainers(f.ctx)
	require.NoError(t, err)
	assert.Len(t, trainers, 1)

	users, err := svc.ListUsers(f.ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
