package mapper

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"
)

type ClassMapper struct {
	userMapper *UserMapper
}

func NewClassMapper() *ClassMapper {
	return &ClassMapper{userMapper: NewUserMapper()}
}

func (m *ClassMapper) TypeToEntity(c *model.ClassType) *entity.ClassType {
	if c == nil {
		return nil
	}
	return &entity.ClassType{
		Id:            c.Id,
		Name:          c.Name,
		Description:   c.Description,
		MonthlyPrice:  c.MonthlyPrice,
		StripePriceId: c.StripePriceId,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (m *ClassMapper) TypeToModel(c *entity.ClassType) *model.ClassType {
	if c == nil {
		return nil
	}
	return &model.ClassType{
		Id:            c.Id,
		Name:          c.Name,
		Description:   c.Description,
		MonthlyPrice:  c.MonthlyPrice,
		StripePriceId: c.StripePriceId,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (m *ClassMapper) ScheduleToEntity(s *model.ClassSchedule) *entity.ClassSchedule {
	if s == nil {
		return nil
	}
	return &entity.ClassSchedule{
		Id:          s.Id,
		ClassTypeId: s.ClassTypeId,
		TrainerId:   s.TrainerId,
		DayOfWeek:   s.DayOfWeek,
		StartTime:   clockMinutes(s.StartTime),
		EndTime:     clockMinutes(s.EndTime),
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		ClassType:   m.TypeToEntity(s.ClassType),
		Trainer:     m.userMapper.ToEntity(s.Trainer),
	}
}

func (m *ClassMapper) ScheduleToModel(s *entity.ClassSchedule) *model.ClassSchedule {
	if s == nil {
		return nil
	}
	return &model.ClassSchedule{
		Id:          s.Id,
		ClassTypeId: s.ClassTypeId,
		TrainerId:   s.TrainerId,
		DayOfWeek:   s.DayOfWeek,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *ClassMapper) CancellationToEntity(c *model.ClassCancellation) *entity.ClassCancellation {
	if c == nil {
		return nil
	}
	return &entity.ClassCancellation{
		Id:              c.Id,
		ClassScheduleId: c.ClassScheduleId,
		Date:            c.Date,
		Reason:          c.Reason,
		CreatedAt:       c.CreatedAt,
	}
}

func (m *ClassMapper) CancellationToModel(c *entity.ClassCancellation) *model.ClassCancellation {
	if c == nil {
		return nil
	}
	return &model.ClassCancellation{
		Id:              c.Id,
		ClassScheduleId: c.ClassScheduleId,
		Date:            c.Date,
		Reason:          c.Reason,
		CreatedAt:       c.CreatedAt,
	}
}

// Postgres returns TIME columns as "HH:MM:SS".
func clockMinutes(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
