package dto

import (
	"time"

	"github.com/google/uuid"
)

type ClassTypeDTO struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	MonthlyPrice float64   `json:"monthlyPrice"`
	Purchasable  bool      `json:"purchasable"`
}

type ClassTypeRef struct {
	Id   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CancellationDTO struct {
	Id     uuid.UUID `json:"id"`
	Date   string    `json:"date"`
	Reason *string   `json:"reason,omitempty"`
}

type ScheduleDTO struct {
	Id            uuid.UUID         `json:"id"`
	ClassType     *ClassTypeRef     `json:"classType,omitempty"`
	Trainer       *PersonRef        `json:"trainer,omitempty"`
	DayOfWeek     int               `json:"dayOfWeek"`
	StartTime     string            `json:"startTime"`
	EndTime       string            `json:"endTime"`
	IsActive      bool              `json:"isActive"`
	Cancellations []CancellationDTO `json:"cancellations"`
}

type ScheduleQuery struct {
	DayOfWeek *int
	StartDate *time.Time
	EndDate   *time.Time
}

type CreateScheduleRequest struct {
	ClassTypeId uuid.UUID `json:"classTypeId" validate:"required"`
	DayOfWeek   int       `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime   string    `json:"startTime" validate:"required,hhmm"`
	EndTime     string    `json:"endTime" validate:"required,hhmm"`
}

type UpdateScheduleRequest struct {
	ClassTypeId *uuid.UUID `json:"classTypeId"`
	DayOfWeek   *int       `json:"dayOfWeek" validate:"omitempty,min=0,max=6"`
	StartTime   *string    `json:"startTime" validate:"omitempty,hhmm"`
	EndTime     *string    `json:"endTime" validate:"omitempty,hhmm"`
}

type CancelClassRequest struct {
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}
