package model

import "time"

// Profile is a staff user of the dashboard.
type Profile struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"type:varchar(128);uniqueIndex;not null"`
	FullName     string    `json:"full_name" gorm:"type:varchar(128)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(128);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
