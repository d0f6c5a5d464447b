package models

import "time"

// User represents a customer account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name  string `gorm:"type:text;not null"`             // Full name.
	Email string `gorm:"type:text;not null;uniqueIndex"` // Unique email address.
	Phone string `gorm:"type:text"`                      // Contact phone number.

	Wallet *Wallet `gorm:"foreignKey:UserID"` // Owned wallet (1:1).

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
