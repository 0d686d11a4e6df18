package models

import (
	"time"

	"github.com/google/uuid"
)

// TitleMaxLength is the longest title a task may carry.
const TitleMaxLength = 200

type Task struct {
	ID        uuid.UUID `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:varchar(36);not null;index:idx_tasks_owner_created,priority:1"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index:idx_tasks_owner_created,priority:2"`
}

func (Task) TableName() string {
	return "tasks"
}
