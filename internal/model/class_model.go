package model

import (
	"time"

	"github.com/google/uuid"
)

type ClassType struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description   string    `gorm:"type:text"`
	MonthlyPrice  float64   `gorm:"type:decimal(10,2);not null"`
	StripePriceId *string   `gorm:"type:varchar(255)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (ClassType) TableName() string {
	return "class_types"
}

type ClassSchedule struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClassTypeId uuid.UUID `gorm:"type:uuid;not null;index"`
	TrainerId   uuid.UUID `gorm:"type:uuid;not null;index"`
	DayOfWeek   int       `gorm:"type:smallint;not null;index"`
	StartTime   string    `gorm:"type:time;not null"`
	EndTime     string    `gorm:"type:time;not null"`
	IsActive    bool      `gorm:"default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	ClassType *ClassType `gorm:"foreignKey:ClassTypeId"`
	Trainer   *User      `gorm:"foreignKey:TrainerId"`
}

func (ClassSchedule) TableName() string {
	return "class_schedules"
}

type ClassCancellation struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClassScheduleId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cancellation_schedule_date,priority:1"`
	Date            time.Time `gorm:"type:date;not null;uniqueIndex:idx_cancellation_schedule_date,priority:2"`
	Reason          *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (ClassCancellation) TableName() string {
	return "class_cancellations"
}
