package models

import "time"

// Wallet holds a user's prepaid balance used to pay for plans.
//
// The balance is only ever mutated inside the plan purchase transaction,
// under a row lock on supporting dialects.
type Wallet struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;uniqueIndex"` // Owning user ID (1:1).

	Balance float64 `gorm:"type:decimal(20,2);not null;default:0"` // Current balance.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
