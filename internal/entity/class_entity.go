package entity

import (
	"time"

	"github.com/google/uuid"
)

type ClassType struct {
	Id            uuid.UUID
	Name          string
	Description   string
	MonthlyPrice  float64
	StripePriceId *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c *ClassType) HasPrice() bool {
	return c.StripePriceId != nil && *c.StripePriceId != ""
}

// ClassSchedule is a weekly slot. Times are "HH:MM" strings so they compare lexically.
type ClassSchedule struct {
	Id          uuid.UUID
	ClassTypeId uuid.UUID
	TrainerId   uuid.UUID
	DayOfWeek   int
	StartTime   string
	EndTime     string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ClassType     *ClassType
	Trainer       *User
	Cancellations []ClassCancellation
}

// Overlaps reports whether [start, end) intersects this slot on the same day.
func (s *ClassSchedule) Overlaps(dayOfWeek int, start, end string) bool {
	return s.IsActive && s.DayOfWeek == dayOfWeek && s.StartTime < end && s.EndTime > start
}

type ClassCancellation struct {
	Id              uuid.UUID
	ClassScheduleId uuid.UUID
	Date            time.Time
	Reason          *string
	CreatedAt       time.Time
}
