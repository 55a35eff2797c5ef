package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActiveSchedules struct{}

func (s ActiveSchedules) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type OnDayOfWeek struct {
	Day int
}

func (s OnDayOfWeek) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("day_of_week = ?", s.Day)
}

// OverlappingSlot matches slots intersecting [Start, End). Touching slots do not overlap.
type OverlappingSlot struct {
	Start string
	End   string
}

func (s OverlappingSlot) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("start_time < ? AND end_time > ?", s.End, s.Start)
}

type ForSchedules struct {
	IDs []uuid.UUID
}

func (s ForSchedules) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("class_schedule_id IN ?", s.IDs)
}

// DateRange bounds a date column inclusively. Nil bounds are open.
type DateRange struct {
	Field string
	From  *time.Time
	To    *time.Time
}

func (s DateRange) Apply(db *gorm.DB) *gorm.DB {
	if s.From != nil {
		db = db.Where(s.Field+" >= ?", *s.From)
	}
	if s.To != nil {
		db = db.Where(s.Field+" <= ?", *s.To)
	}
	return db
}

type ByNewsType struct {
	Type string
}

func (s ByNewsType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", s.Type)
}
