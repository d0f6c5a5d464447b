package models

import "time"

// Plan records a purchase of N units of one product by one user.
//
// TotalAmount is fixed at creation time (price * quantity) and never
// updated afterwards.
type Plan struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`    // Purchasing user ID.
	User   User   `gorm:"foreignKey:UserID"` // Purchasing user.

	ProductID uint64  `gorm:"not null;index"`       // Purchased product ID.
	Product   Product `gorm:"foreignKey:ProductID"` // Purchased product.

	Quantity    int     `gorm:"not null;default:1"`          // Units purchased.
	TotalAmount float64 `gorm:"type:decimal(20,2);not null"` // Amount debited at purchase.

	PendingPolicies []PendingPolicy `gorm:"foreignKey:PlanID"` // Issued policy slots.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
