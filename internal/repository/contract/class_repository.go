package contract

import (
	"context"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"

	"github.com/google/uuid"
)

type ClassTypeRepository interface {
	Create(ctx context.Context, classType *entity.ClassType) error
	FindAll(ctx context.Context) ([]*entity.ClassType, error)
	FindById(ctx context.Context, id uuid.UUID) (*entity.ClassType, error)
	FindByName(ctx context.Context, name string) (*entity.ClassType, error)
	UpdatePriceId(ctx context.Context, id uuid.UUID, priceId string) error
}

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.ClassSchedule) error
	Update(ctx context.Context, schedule *entity.ClassSchedule) error
	// FindById loads the class type and trainer.
	FindById(ctx context.Context, id uuid.UUID) (*entity.ClassSchedule, error)
	// FindActive returns active slots ordered by day and start time, optionally for one day.
	FindActive(ctx context.Context, dayOfWeek *int) ([]*entity.ClassSchedule, error)
	FindConflicts(ctx context.Context, dayOfWeek int, start, end string, excludeId *uuid.UUID) ([]*entity.ClassSchedule, error)

	CreateCancellation(ctx context.Context, cancellation *entity.ClassCancellation) error
	FindCancellation(ctx context.Context, scheduleId uuid.UUID, date time.Time) (*entity.ClassCancellation, error)
	FindCancellations(ctx context.Context, scheduleIds []uuid.UUID, from, to *time.Time) ([]*entity.ClassCancellation, error)
}
