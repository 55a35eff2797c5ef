package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/mailer"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	adminModule = "AdminService"

	// No 0/O, 1/l/I.
	passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"
	passwordLength   = 10
	passwordSuffix   = "!A1"
)

type IAdminService interface {
	ListTrainers(ctx context.Context) ([]dto.UserDTO, error)
	ListUsers(ctx context.Context) ([]dto.UserDTO, error)
	CreateTrainer(ctx context.Context, req *dto.CreateTrainerRequest) (*dto.TrainerCreatedResponse, error)
	UpdateTrainer(ctx context.Context, id uuid.UUID, req *dto.UpdateTrainerRequest) (*dto.UserDTO, error)
	SetTrainerActive(ctx context.Context, id uuid.UUID, active bool) (*dto.UserDTO, error)
	ResetTrainerPassword(ctx context.Context, id uuid.UUID) (*dto.PasswordResetResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	emailQueue mailer.IQueue
	logger     logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, emailQueue mailer.IQueue, log logger.ILogger) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		emailQueue: emailQueue,
		logger:     log,
	}
}

func generateTemporaryPassword() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < passwordLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordAlphabet[n.Int64()])
	}
	b.WriteString(passwordSuffix)
	return b.String(), nil
}

func (s *adminService) ListTrainers(ctx context.Context) ([]dto.UserDTO, error) {
	role := entity.UserRoleTrainer
	users, err := s.uowFactory.NewUnitOfWork(ctx).UserRepository().FindAll(ctx, contract.UserFilter{Role: &role})
	if err != nil {
		return nil, err
	}
	return dto.Map(users, dto.FromUser), nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]dto.UserDTO, error) {
	users, err := s.uowFactory.NewUnitOfWork(ctx).UserRepository().FindAll(ctx, contract.UserFilter{})
	if err != nil {
		return nil, err
	}
	return dto.Map(users, dto.FromUser), nil
}

func (s *adminService) CreateTrainer(ctx context.Context, req *dto.CreateTrainerRequest) (*dto.TrainerCreatedResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	email := normalizeEmail(req.Email)

	existing, err := uow.UserRepository().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("A user with this email already exists")
	}

	password, generated := "", false
	if req.Password != nil && *req.Password != "" {
		password = *req.Password
	} else {
		if password, err = generateTemporaryPassword(); err != nil {
			return nil, err
		}
		generated = true
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	trainer := &entity.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        req.Phone,
		Role:         entity.UserRoleTrainer,
		IsActive:     true,
	}
	if err := uow.UserRepository().Create(ctx, trainer); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, apperror.Conflict("A user with this email already exists")
		}
		return nil, err
	}

	res := &dto.TrainerCreatedResponse{User: dto.FromUser(trainer)}
	if generated {
		res.TemporaryPassword = password
		s.enqueueCredentials(ctx, trainer, password)
	}

	s.logger.Info(adminModule, "Trainer created", map[string]interface{}{"user_id": trainer.Id.String()})
	return res, nil
}

func (s *adminService) findTrainer(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != entity.UserRoleTrainer {
		return nil, apperror.NotFound("Trainer not found")
	}
	return user, nil
}

func (s *adminService) UpdateTrainer(ctx context.Context, id uuid.UUID, req *dto.UpdateTrainerRequest) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	trainer, err := s.findTrainer(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != trainer.Email {
			other, err := uow.UserRepository().FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, apperror.Conflict("A user with this email already exists")
			}
			trainer.Email = email
		}
	}
	if req.FirstName != nil {
		trainer.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		trainer.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		trainer.Phone = req.Phone
	}

	if err := uow.UserRepository().Update(ctx, trainer); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, apperror.Conflict("A user with this email already exists")
		}
		return nil, err
	}
	res := dto.FromUser(trainer)
	return &res, nil
}

// SetTrainerActive also revokes refresh tokens on deactivation so open sessions cannot be renewed.
func (s *adminService) SetTrainerActive(ctx context.Context, id uuid.UUID, active bool) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	trainer, err := s.findTrainer(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	trainer.IsActive = active

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Update(ctx, trainer); err != nil {
		return nil, err
	}
	if !active {
		if err := uow.UserRepository().DeleteAllRefreshTokens(ctx, trainer.Id); err != nil {
			return nil, err
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	res := dto.FromUser(trainer)
	return &res, nil
}

func (s *adminService) ResetTrainerPassword(ctx context.Context, id uuid.UUID) (*dto.PasswordResetResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	trainer, err := s.findTrainer(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	password, err := generateTemporaryPassword()
	if err != nil {
		return nil, err
	}
	if trainer.PasswordHash, err = hashPassword(password); err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Update(ctx, trainer); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().DeleteAllRefreshTokens(ctx, trainer.Id); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.PasswordResetResponse{TemporaryPassword: password}, nil
}

func (s *adminService) enqueueCredentials(ctx context.Context, trainer *entity.User, password string) {
	if s.emailQueue == nil {
		return
	}
	job := mailer.Job{
		Kind: mailer.JobTrainerCredentials,
		To:   trainer.Email,
		Name: trainer.FirstName,
		Data: map[string]string{"password": password},
	}
	if err := s.emailQueue.Enqueue(ctx, job); err != nil {
		s.logger.Warn(adminModule, "Failed to enqueue credentials email", map[string]interface{}{
			"user_id": trainer.Id.String(),
			"error":   err.Error(),
		})
	}
}
