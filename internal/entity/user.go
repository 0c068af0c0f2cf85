package entity

import (
	"time"
)

// User is an authenticated desk member. Passwords are bcrypt hashes.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Username  string    `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Email     string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	FullName  string    `json:"full_name" gorm:"size:255;not null"`
	Role      string    `json:"role" gorm:"size:50;default:user"`
	Avatar    string    `json:"avatar" gorm:"size:500"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
