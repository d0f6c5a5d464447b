package models

import (
	"time"

	"gorm.io/datatypes"
)

// Product represents a purchasable insurance product.
type Product struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name     string         `gorm:"type:text;not null"`               // Product name.
	Price    float64        `gorm:"type:decimal(20,2);not null"`      // Unit price.
	Benefits datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"` // Benefit description list.

	CategoryID uint64          `gorm:"not null;index"`        // Owning category ID.
	Category   ProductCategory `gorm:"foreignKey:CategoryID"` // Owning category.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
