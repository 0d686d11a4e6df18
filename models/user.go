package models

import (
	"time"

	"github.com/google/uuid"
)

// UsernameMaxLength matches the column size of users.username.
const UsernameMaxLength = 150

type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:varchar(36);primaryKey"`
	Username  string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"size:254;not null"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}
