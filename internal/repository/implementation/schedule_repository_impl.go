package implementation

import (
	"context"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/mapper"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ClassMapper
}

func NewScheduleRepository(db *gorm.DB) contract.ScheduleRepository {
	return &ScheduleRepositoryImpl{
		db:     db,
		mapper: mapper.NewClassMapper(),
	}
}

func (r *ScheduleRepositoryImpl) Create(ctx context.Context, schedule *entity.ClassSchedule) error {
	m := r.mapper.ScheduleToModel(schedule)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*schedule = *r.mapper.ScheduleToEntity(m)
	return nil
}

func (r *ScheduleRepositoryImpl) Update(ctx context.Context, schedule *entity.ClassSchedule) error {
	m := r.mapper.ScheduleToModel(schedule)
	if err := r.db.WithContext(ctx).Omit("ClassType", "Trainer").Save(m).Error; err != nil {
		return translateError(err)
	}
	return nil
}

func (r *ScheduleRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.ClassSchedule, error) {
	var m model.ClassSchedule
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByID{ID: id},
		specification.Preload{Association: "ClassType"},
		specification.Preload{Association: "Trainer"},
	)
	found, err := first(query, &m)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.ScheduleToEntity(&m), nil
}

func (r *ScheduleRepositoryImpl) FindActive(ctx context.Context, dayOfWeek *int) ([]*entity.ClassSchedule, error) {
	specs := []specification.Specification{
		specification.ActiveSchedules{},
		specification.Preload{Association: "ClassType"},
		specification.Preload{Association: "Trainer"},
	}
	if dayOfWeek != nil {
		specs = append(specs, specification.OnDayOfWeek{Day: *dayOfWeek})
	}
	specs = append(specs,
		specification.OrderBy{Field: "day_of_week"},
		specification.OrderBy{Field: "start_time"},
	)
	return r.find(ctx, specs...)
}

func (r *ScheduleRepositoryImpl) FindConflicts(ctx context.Context, dayOfWeek int, start, end string, excludeId *uuid.UUID) ([]*entity.ClassSchedule, error) {
	specs := []specification.Specification{
		specification.ActiveSchedules{},
		specification.OnDayOfWeek{Day: dayOfWeek},
		specification.OverlappingSlot{Start: start, End: end},
	}
	if excludeId != nil {
		specs = append(specs, specification.ExcludeID{ID: *excludeId})
	}
	return r.find(ctx, specs...)
}

func (r *ScheduleRepositoryImpl) find(ctx context.Context, specs ...specification.Specification) ([]*entity.ClassSchedule, error) {
	var models []*model.ClassSchedule
	if err := applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, err
	}

	schedules := make([]*entity.ClassSchedule, 0, len(models))
	for _, m := range models {
		schedules = append(schedules, r.mapper.ScheduleToEntity(m))
	}
	return schedules, nil
}

func (r *ScheduleRepositoryImpl) CreateCancellation(ctx context.Context, cancellation *entity.ClassCancellation) error {
	m := r.mapper.CancellationToModel(cancellation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*cancellation = *r.mapper.CancellationToEntity(m)
	return nil
}

func (r *ScheduleRepositoryImpl) FindCancellation(ctx context.Context, scheduleId uuid.UUID, date time.Time) (*entity.ClassCancellation, error) {
	var m model.ClassCancellation
	query := applySpecifications(r.db.WithContext(ctx),
		specification.Filter("class_schedule_id", scheduleId),
		specification.Filter("date", date.Format("2006-01-02")),
	)
	found, err := first(query, &m)
	if err != nil || !found {
		return nil, err
	}
	return r.mapper.CancellationToEntity(&m), nil
}

func (r *ScheduleRepositoryImpl) FindCancellations(ctx context.Context, scheduleIds []uuid.UUID, from, to *time.Time) ([]*entity.ClassCancellation, error) {
	if len(scheduleIds) == 0 {
		return []*entity.ClassCancellation{}, nil
	}

	var models []*model.ClassCancellation
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ForSchedules{IDs: scheduleIds},
		specification.DateRange{Field: "date", From: from, To: to},
		specification.OrderBy{Field: "date"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	cancellations := make([]*entity.ClassCancellation, 0, len(models))
	for _, m := range models {
		cancellations = append(cancellations, r.mapper.CancellationToEntity(m))
	}
	return cancellations, nil
}
