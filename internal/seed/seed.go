// Package seed creates the accounts, catalog, weekly schedule and notification types a fresh club needs.
// Every step is skipped when its row already exists, so Run can be repeated safely.
package seed

import (
	"context"
	"fmt"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"

	"golang.org/x/crypto/bcrypt"
)

const seedModule = "Seed"

type Account struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      entity.UserRole
}

type Options struct {
	Admin   Account
	Trainer Account
}

func DefaultOptions() Options {
	return Options{
		Admin: Account{
			Email:     "admin@martial-arts.com",
			Password:  "Admin123!",
			FirstName: "Administrator",
			LastName:  "Systemu",
			Role:      entity.UserRoleAdministrator,
		},
		Trainer: Account{
			Email:     "trener@martial-arts.com",
			Password:  "Trener123!",
			FirstName: "Tomasz",
			LastName:  "Kowalski",
			Role:      entity.UserRoleTrainer,
		},
	}
}

type classTypeSeed struct {
	Name        string
	Description string
	Price       float64
}

var classTypes = []classTypeSeed{
	{"Boks", "Tradycyjny boks angielski. Nauka techniki ciosów, pracy nóg i taktyki walki.", 150},
	{"Kickboxing", "Połączenie boksu z kopnięciami. Kompleksowy trening całego ciała.", 180},
	{"MMA", "Mixed Martial Arts. Trening obejmuje striking, wrestling i grappling.", 200},
}

type slotSeed struct {
	ClassType  string
	DayOfWeek  int
	Start, End string
}

var weeklySchedule = []slotSeed{
	{"Boks", 1, "18:00", "19:30"},
	{"Boks", 3, "18:00", "19:30"},
	{"Kickboxing", 2, "19:00", "20:30"},
	{"Kickboxing", 4, "19:00", "20:30"},
	{"MMA", 5, "18:00", "20:00"},
}

// Step is one line of the seed report.
type Step struct {
	Kind    string
	Name    string
	Created bool
}

type Seeder struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	hashCost   int
}

func NewSeeder(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) *Seeder {
	return &Seeder{uowFactory: uowFactory, logger: log, hashCost: bcrypt.DefaultCost}
}

func (s *Seeder) Run(ctx context.Context, opts Options) ([]Step, error) {
	var report []Step

	// 1. Accounts
	_, step, err := s.ensureUser(ctx, opts.Admin)
	if err != nil {
		return report, err
	}
	report = append(report, step)
	trainer, step, err := s.ensureUser(ctx, opts.Trainer)
	if err != nil {
		return report, err
	}
	report = append(report, step)

	// 2. Catalog
	byName := make(map[string]*entity.ClassType, len(classTypes))
	for _, ct := range classTypes {
		classType, step, err := s.ensureClassType(ctx, ct)
		if err != nil {
			return report, err
		}
		byName[ct.Name] = classType
		report = append(report, step)
	}

	// 3. Weekly schedule
	for _, slot := range weeklySchedule {
		step, err := s.ensureSlot(ctx, byName[slot.ClassType], trainer, slot)
		if err != nil {
			return report, err
		}
		report = append(report, step)
	}

	// 4. Notification registry
	repo := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository()
	for _, nt := range service.DefaultNotificationTypes() {
		nt := nt
		if err := repo.UpsertType(ctx, &nt); err != nil {
			return report, fmt.Errorf("notification type %s: %w", nt.Code, err)
		}
		report = append(report, Step{Kind: "notification type", Name: nt.Code, Created: true})
	}

	s.logger.Info(seedModule, "Seed completed", map[string]interface{}{"steps": len(report)})
	return report, nil
}

func (s *Seeder) ensureUser(ctx context.Context, acc Account) (*entity.User, Step, error) {
	step := Step{Kind: "account", Name: acc.Email}
	repo := s.uowFactory.NewUnitOfWork(ctx).UserRepository()

	existing, err := repo.FindByEmail(ctx, acc.Email)
	if err != nil {
		return nil, step, err
	}
	if existing != nil {
		return existing, step, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), s.hashCost)
	if err != nil {
		return nil, step, err
	}
	user := &entity.User{
		Email:        acc.Email,
		PasswordHash: string(hash),
		FirstName:    acc.FirstName,
		LastName:     acc.LastName,
		Role:         acc.Role,
		IsActive:     true,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, step, fmt.Errorf("account %s: %w", acc.Email, err)
	}
	step.Created = true
	return user, step, nil
}

func (s *Seeder) ensureClassType(ctx context.Context, seed classTypeSeed) (*entity.ClassType, Step, error) {
	step := Step{Kind: "class type", Name: seed.Name}
	repo := s.uowFactory.NewUnitOfWork(ctx).ClassTypeRepository()

	existing, err := repo.FindByName(ctx, seed.Name)
	if err != nil {
		return nil, step, err
	}
	if existing != nil {
		return existing, step, nil
	}

	classType := &entity.ClassType{Name: seed.Name, Description: seed.Description, MonthlyPrice: seed.Price}
	if err := repo.Create(ctx, classType); err != nil {
		return nil, step, fmt.Errorf("class type %s: %w", seed.Name, err)
	}
	step.Created = true
	return classType, step, nil
}

// ensureSlot skips a slot whenever anything already occupies its time, which also covers a previous run.
func (s *Seeder) ensureSlot(ctx context.Context, classType *entity.ClassType, trainer *entity.User, slot slotSeed) (Step, error) {
	step := Step{Kind: "schedule", Name: fmt.Sprintf("%s day %d %s-%s", slot.ClassType, slot.DayOfWeek, slot.Start, slot.End)}
	repo := s.uowFactory.NewUnitOfWork(ctx).ScheduleRepository()

	conflicts, err := repo.FindConflicts(ctx, slot.DayOfWeek, slot.Start, slot.End, nil)
	if err != nil {
		return step, err
	}
	if len(conflicts) > 0 {
		return step, nil
	}

	schedule := &entity.ClassSchedule{
		ClassTypeId: classType.Id,
		TrainerId:   trainer.Id,
		DayOfWeek:   slot.DayOfWeek,
		StartTime:   slot.Start,
		EndTime:     slot.End,
		IsActive:    true,
	}
	if err := repo.Create(ctx, schedule); err != nil {
		return step, err
	}
	step.Created = true
	return step, nil
}
