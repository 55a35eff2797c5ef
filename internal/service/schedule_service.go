package service

import (
	"context"
	"fmt"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type IScheduleService interface {
	List(ctx context.Context, query dto.ScheduleQuery) ([]dto.ScheduleDTO, error)
	Create(ctx context.Context, trainerId uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleDTO, error)
	Update(ctx context.Context, trainerId, id uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleDTO, error)
	Delete(ctx context.Context, trainerId, id uuid.UUID) error
	CancelClass(ctx context.Context, trainerId, id uuid.UUID, req *dto.CancelClassRequest) (*dto.CancellationDTO, error)
}

type scheduleService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewScheduleService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger) IScheduleService {
	return &scheduleService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *scheduleService) List(ctx context.Context, query dto.ScheduleQuery) ([]dto.ScheduleDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	schedules, err := uow.ScheduleRepository().FindActive(ctx, query.DayOfWeek)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return []dto.ScheduleDTO{}, nil
	}

	ids := make([]uuid.UUID, 0, len(schedules))
	for _, sc := range schedules {
		ids = append(ids, sc.Id)
	}
	cancellations, err := uow.ScheduleRepository().FindCancellations(ctx, ids, query.StartDate, query.EndDate)
	if err != nil {
		return nil, err
	}

	bySchedule := make(map[uuid.UUID][]entity.ClassCancellation)
	for _, c := range cancellations {
		bySchedule[c.ClassScheduleId] = append(bySchedule[c.ClassScheduleId], *c)
	}
	for _, sc := range schedules {
		sc.Cancellations = bySchedule[sc.Id]
	}
	return dto.Map(schedules, dto.FromSchedule), nil
}

func validateSlot(start, end string) error {
	if start >= end {
		return apperror.BadRequest("Start time must be before end time")
	}
	return nil
}

func (s *scheduleService) ensureNoConflict(ctx context.Context, repo contract.ScheduleRepository, day int, start, end string, exclude *uuid.UUID) error {
	conflicts, err := repo.FindConflicts(ctx, day, start, end, exclude)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		c := conflicts[0]
		return apperror.Conflict(fmt.Sprintf("Time slot conflicts with an existing class (%s-%s)", c.StartTime, c.EndTime))
	}
	return nil
}

func (s *scheduleService) Create(ctx context.Context, trainerId uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleDTO, error) {
	if err := validateSlot(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	classType, err := uow.ClassTypeRepository().FindById(ctx, req.ClassTypeId)
	if err != nil {
		return nil, err
	}
	if classType == nil {
		return nil, apperror.NotFound("Class type not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := s.ensureNoConflict(ctx, uow.ScheduleRepository(), req.DayOfWeek, req.StartTime, req.EndTime, nil); err != nil {
		return nil, err
	}

	schedule := &entity.ClassSchedule{
		ClassTypeId: classType.Id,
		TrainerId:   trainerId,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsActive:    true,
	}
	if err := uow.ScheduleRepository().Create(ctx, schedule); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	saved, err := uow.ScheduleRepository().FindById(ctx, schedule.Id)
	if err != nil {
		return nil, err
	}
	res := dto.FromSchedule(saved)
	return &res, nil
}

func (s *scheduleService) findOwned(ctx context.Context, repo contract.ScheduleRepository, trainerId, id uuid.UUID) (*entity.ClassSchedule, error) {
	schedule, err := repo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, apperror.NotFound("Schedule not found")
	}
	if schedule.TrainerId != trainerId {
		return nil, apperror.Forbidden("You can only manage your own classes")
	}
	return schedule, nil
}

func (s *scheduleService) Update(ctx context.Context, trainerId, id uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	schedule, err := s.findOwned(ctx, uow.ScheduleRepository(), trainerId, id)
	if err != nil {
		return nil, err
	}

	slotChanged := false
	if req.DayOfWeek != nil && *req.DayOfWeek != schedule.DayOfWeek {
		schedule.DayOfWeek = *req.DayOfWeek
		slotChanged = true
	}
	if req.StartTime != nil && *req.StartTime != schedule.StartTime {
		schedule.StartTime = *req.StartTime
		slotChanged = true
	}
	if req.EndTime != nil && *req.EndTime != schedule.EndTime {
		schedule.EndTime = *req.EndTime
		slotChanged = true
	}
	if req.ClassTypeId != nil && *req.ClassTypeId != schedule.ClassTypeId {
		classType, err := uow.ClassTypeRepository().FindById(ctx, *req.ClassTypeId)
		if err != nil {
			return nil, err
		}
		if classType == nil {
			return nil, apperror.NotFound("Class type not found")
		}
		schedule.ClassTypeId = classType.Id
		schedule.ClassType = classType
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if slotChanged {
		if err := validateSlot(schedule.StartTime, schedule.EndTime); err != nil {
			return nil, err
		}
		if err := s.ensureNoConflict(ctx, uow.ScheduleRepository(), schedule.DayOfWeek, schedule.StartTime, schedule.EndTime, &schedule.Id); err != nil {
			return nil, err
		}
	}

	if err := uow.ScheduleRepository().Update(ctx, schedule); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	res := dto.FromSchedule(schedule)
	return &res, nil
}

// Delete deactivates the slot. Past cancellations stay attached to it.
func (s *scheduleService) Delete(ctx context.Context, trainerId, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	schedule, err := s.findOwned(ctx, uow.ScheduleRepository(), trainerId, id)
	if err != nil {
		return err
	}
	schedule.IsActive = false
	return uow.ScheduleRepository().Update(ctx, schedule)
}

func (s *scheduleService) CancelClass(ctx context.Context, trainerId, id uuid.UUID, req *dto.CancelClassRequest) (*dto.CancellationDTO, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperror.Validation("Date must be YYYY-MM-DD")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	schedule, err := s.findOwned(ctx, uow.ScheduleRepository(), trainerId, id)
	if err != nil {
		return nil, err
	}

	existing, err := uow.ScheduleRepository().FindCancellation(ctx, schedule.Id, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("This class is already cancelled on that date")
	}

	className := ""
	if schedule.ClassType != nil {
		className = schedule.ClassType.Name
	}
	content := fmt.Sprintf("Zajęcia %s w dniu %s o godz. %s zostały odwołane.", className, req.Date, schedule.StartTime)
	if req.Reason != nil && *req.Reason != "" {
		content += " Powód: " + *req.Reason
	}

	cancellation := &entity.ClassCancellation{
		ClassScheduleId: schedule.Id,
		Date:            date,
		Reason:          req.Reason,
	}
	news := &entity.News{
		AuthorId:    trainerId,
		Title:       fmt.Sprintf("Odwołane zajęcia: %s (%s)", className, req.Date),
		Content:     content,
		Type:        entity.NewsTypeCancellation,
		PublishedAt: time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ScheduleRepository().CreateCancellation(ctx, cancellation); err != nil {
		if err == contract.ErrDuplicate {
			return nil, apperror.Conflict("This class is already cancelled on that date")
		}
		return nil, err
	}
	if err := uow.NewsRepository().Create(ctx, news); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, events.ClassCancelled, map[string]interface{}{
		"schedule_id": schedule.Id.String(),
		"class_name":  className,
		"date":        req.Date,
		"start_time":  schedule.StartTime,
		"entity_type": "news",
		"entity_id":   news.Id.String(),
	})

	return &dto.CancellationDTO{Id: cancellation.Id, Date: req.Date, Reason: cancellation.Reason}, nil
}
