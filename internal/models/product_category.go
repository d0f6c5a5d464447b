package models

import "time"

// ProductCategory groups insurance products.
type ProductCategory struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name        string `gorm:"type:text;not null;uniqueIndex"` // Unique category name.
	Description string `gorm:"type:text"`                      // Category description.

	Products []Product `gorm:"foreignKey:CategoryID"` // Products in this category.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
