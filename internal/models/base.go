package models

import "time"

// Base contains the identity and creation timestamp shared by all tables.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
