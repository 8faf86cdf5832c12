package models

import "time"

// User represents a registered listener.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Name         string    `json:"name" gorm:"type:varchar(100)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"` // Never serialized
	CreatedAt    time.Time `json:"created_at"`
}
