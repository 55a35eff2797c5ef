package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/mailer"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/token"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const authModule = "AuthService"

var errInvalidCredentials = apperror.Unauthorized("Invalid email or password")

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, client dto.ClientInfo) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, client dto.ClientInfo) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error)
	Logout(ctx context.Context, userId uuid.UUID, refreshToken string) error
	ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) (*dto.ChangePasswordResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	tokens     *token.Manager
	publisher  events.Publisher
	emailQueue mailer.IQueue
	logger     logger.ILogger
	now        func() time.Time
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, tokens *token.Manager, publisher events.Publisher, emailQueue mailer.IQueue, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		tokens:     tokens,
		publisher:  publisher,
		emailQueue: emailQueue,
		logger:     log,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, client dto.ClientInfo) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	email := normalizeEmail(req.Email)

	// 1. Check for existing user
	existing, err := uow.UserRepository().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("Email is already registered")
	}

	// 2. Hash password
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		Role:         entity.UserRoleUser,
		IsActive:     true,
	}

	// 3. User and first refresh token in one transaction
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, apperror.Conflict("Email is already registered")
		}
		return nil, err
	}
	res, err := s.issueTokens(ctx, uow, user, client)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, events.UserRegistered, map[string]interface{}{
		"user_id":     user.Id.String(),
		"email":       user.Email,
		"first_name":  user.FirstName,
		"entity_type": "user",
		"entity_id":   user.Id.String(),
	})
	s.enqueue(ctx, mailer.Job{Kind: mailer.JobWelcome, To: user.Email, Name: user.FirstName})

	return res, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, client dto.ClientInfo) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	res, err := s.issueTokens(ctx, uow, user, client)
	if err != nil {
		return nil, err
	}

	s.logger.Info(authModule, "User logged in", map[string]interface{}{"user_id": user.Id.String()})
	return res, nil
}

func (s *authService) issueTokens(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, client dto.ClientInfo) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refreshToken, expiresAt, err := s.tokens.IssueRefresh(user)
	if err != nil {
		return nil, err
	}

	if err := uow.UserRepository().CreateRefreshToken(ctx, &entity.RefreshToken{
		UserId:    user.Id,
		TokenHash: token.Hash(refreshToken),
		ExpiresAt: expiresAt,
		IpAddress: client.IpAddress,
		UserAgent: client.UserAgent,
	}); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.FromUser(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	claims, err := s.tokens.Parse(req.RefreshToken, token.TypeRefresh)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid refresh token")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.UserRepository().FindRefreshToken(ctx, token.Hash(req.RefreshToken))
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.UserId != claims.UserId || !stored.Usable(s.now()) {
		return nil, apperror.Unauthorized("Refresh token is expired or revoked")
	}

	user, err := uow.UserRepository().FindById(ctx, claims.UserId)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, apperror.Unauthorized("Account is not active")
	}

	accessToken, err := s.tokens.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshTokenResponse{AccessToken: accessToken}, nil
}

func (s *authService) Logout(ctx context.Context, userId uuid.UUID, refreshToken string) error {
	return s.uowFactory.NewUnitOfWork(ctx).UserRepository().DeleteRefreshToken(ctx, userId, token.Hash(refreshToken))
}

func (s *authService) ChangePassword(ctx context.Context, userId uuid.UUID, req *dto.ChangePasswordRequest) (*dto.ChangePasswordResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return nil, apperror.BadRequest("Current password is incorrect")
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().DeleteAllRefreshTokens(ctx, user.Id); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.ChangePasswordResponse{RequiresRelogin: true}, nil
}

func (s *authService) enqueue(ctx context.Context, job mailer.Job) {
	if s.emailQueue == nil {
		return
	}
	if err := s.emailQueue.Enqueue(ctx, job); err != nil {
		s.logger.Warn(authModule, "Failed to enqueue email", map[string]interface{}{
			"kind":  job.Kind,
			"error": err.Error(),
		})
	}
}
