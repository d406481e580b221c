package entities

import (
	"github.com/google/uuid"
	"lesson-generator/constant"
	"time"
)

type Lesson struct {
	ID           uuid.UUID             `json:"id" gorm:"type:uuid;primary_key"`
	Outline      string                `json:"outline" gorm:"type:text;not null"`
	Title        string                `json:"title" gorm:"type:text;not null"`
	Status       constant.LessonStatus `json:"status" gorm:"type:varchar(20);not null;index:idx_lessons_status"`
	Content      *string               `json:"content,omitempty" gorm:"type:text"`
	ErrorMessage *string               `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt    time.Time             `json:"created_at" gorm:"not null;index:idx_lessons_created_at"`
	UpdatedAt    time.Time             `json:"updated_at" gorm:"not null"`
}

func (Lesson) TableName() string {
	return "lessons"
}
