package models

import "time"

// User is a directory entry. Role is descriptive only.
type User struct {
	ID        string `gorm:"primaryKey;size:32"`
	Name      string `gorm:"size:128;not null"`
	Email     string `gorm:"size:256;not null"`
	Role      string `gorm:"size:64;not null"`
	LastLogin string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
