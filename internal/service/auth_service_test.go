package service

import (
	"testing"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/mailer"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/token"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var client = dto.ClientInfo{IpAddress: "127.0.0.1", UserAgent: "go-test"}

func newAuthService(f *fixture, queue mailer.IQueue) (*authService, *token.Manager) {
	tokens := token.NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(f.store, tokens, f.recorder, queue, f.log).(*authService), tokens
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	queue := &jobQueue{}
	svc, tokens := newAuthService(f, queue)

	res, err := svc.Register(f.ctx, &dto.RegisterRequest{
		Email:     "  Nowy@Example.com ",
		Password:  "Password1!",
		FirstName: "Nowy",
		LastName:  "Członek",
	}, client)

	require.NoError(t, err)
	assert.Equal(t, "nowy@example.com", res.User.Email)
	assert.Equal(t, string(entity.UserRoleUser), res.User.Role)

	claims, err := tokens.Parse(res.AccessToken, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, res.User.Id, claims.UserId)
	assert.Equal(t, 1, f.store.RefreshTokenCount(res.User.Id))

	assert.Equal(t, []string{events.UserRegistered}, f.recorder.Types())
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, mailer.JobWelcome, queue.jobs[0].Kind)
	assert.Equal(t, "nowy@example.com", queue.jobs[0].To)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	svc, _ := newAuthService(f, nil)

	_, err := svc.Register(f.ctx, &dto.RegisterRequest{
		Email:     "JAN@example.com",
		Password:  "Password1!",
		FirstName: "Jan",
		LastName:  "Drugi",
	}, client)

	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		disable  bool
		ok       bool
	}{
		{name: "valid", email: "jan@example.com", password: "Password1!", ok: true},
		{name: "case insensitive email", email: "Jan@Example.com", password: "Password1!", ok: true},
		{name: "wrong password", email: "jan@example.com", password: "nope"},
		{name: "unknown user", email: "ghost@example.com", password: "Password1!"},
		{name: "inactive user", email: "jan@example.com", password: "Password1!", disable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.disable {
				f.user.IsActive = false
				require.NoError(t, f.store.NewUnitOfWork(f.ctx).UserRepository().Update(f.ctx, f.user))
			}
			svc, _ := newAuthService(f, nil)

			res, err := svc.Login(f.ctx, &dto.LoginRequest{Email: tt.email, Password: tt.password}, client)

			if tt.ok {
				require.NoError(t, err)
				assert.NotEmpty(t, res.AccessToken)
				assert.NotEmpty(t, res.RefreshToken)
				return
			}
			assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(t)
	svc, _ := newAuthService(f, nil)
	login, err := svc.Login(f.ctx, &dto.LoginRequest{Email: f.user.Email, Password: "Password1!"}, client)
	require.NoError(t, err)

	refreshed, err := svc.Refresh(f.ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted as a refresh token.
	_, err = svc.Refresh(f.ctx, &dto.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	require.NoError(t, svc.Logout(f.ctx, f.user.Id, login.RefreshToken))
	_, err = svc.Refresh(f.ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestRefresh_ExpiredStoredToken(t *testing.T) {
	f := newFixture(t)
	svc, _ := newAuthService(f, nil)
	login, err := svc.Login(f.ctx, &dto.LoginRequest{Email: f.user.Email, Password: "Password1!"}, client)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(30 * 24 * time.Hour) }

	_, err = svc.Refresh(f.ctx, &dto.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	svc, _ := newAuthService(f, nil)
	_, err := svc.Login(f.ctx, &dto.LoginRequest{Email: f.user.Email, Password: "Password1!"}, client)
	require.NoError(t, err)

	_, err = svc.ChangePassword(f.ctx, f.user.Id, &dto.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "Secret12#"})
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))

	res, err := svc.ChangePassword(f.ctx, f.user.Id, &dto.ChangePasswordRequest{OldPassword: "Password1!", NewPassword: "Secret12#"})
	require.NoError(t, err)
	assert.True(t, res.RequiresRelogin)
	assert.Equal(t, 0, f.store.RefreshTokenCount(f.user.Id))

	_, err = svc.Login(f.ctx, &dto.LoginRequest{Email: f.user.Email, Password: "Secret12#"}, client)
	assert.NoError(t, err)
}
