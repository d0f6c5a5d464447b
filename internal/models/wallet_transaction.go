package models

import "time"

// WalletTransaction is an immutable audit record of a wallet debit.
// One row is created per successful plan purchase; rows are never
// updated or deleted.
type WalletTransaction struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`    // Debited user ID.
	User   User   `gorm:"foreignKey:UserID"` // Debited user.

	WalletID uint64 `gorm:"not null;index"`      // Debited wallet ID.
	Wallet   Wallet `gorm:"foreignKey:WalletID"` // Debited wallet.

	PlanID uint64 `gorm:"not null;index"`    // Plan paid for.
	Plan   Plan   `gorm:"foreignKey:PlanID"` // Plan paid for.

	Amount float64 `gorm:"type:decimal(20,2);not null;default:0"` // Debited amount.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}
