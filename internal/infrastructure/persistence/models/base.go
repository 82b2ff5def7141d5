package models

import "time"

// BaseModel provides the key and timestamps shared by persistence models.
// Keys are caller-visible strings, not database sequences.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
