package models

import (
	"time"
)

// User is a registered account. Everything a user owns cascades on delete.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Firstname    string    `gorm:"size:50" json:"firstname"`
	Lastname     string    `gorm:"size:50" json:"lastname"`
	Country      string    `gorm:"size:50" json:"country"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Email        string    `gorm:"size:100;uniqueIndex" json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
