package models

import "time"

// Policy is the activated, uniquely numbered insurance contract for one
// user/product pair. Policies are terminal, append-only records.
//
// The composite unique index on (user_id, product_id) backstops the
// duplicate check performed during activation.
type Policy struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	PolicyNumber string `gorm:"type:text;not null;uniqueIndex"` // Generated policy number.

	UserID uint64 `gorm:"not null;uniqueIndex:idx_policies_user_product"` // Policy holder ID.
	User   User   `gorm:"foreignKey:UserID"`                              // Policy holder.

	ProductID uint64  `gorm:"not null;uniqueIndex:idx_policies_user_product"` // Covered product ID.
	Product   Product `gorm:"foreignKey:ProductID"`                           // Covered product.

	PlanID uint64 `gorm:"not null;index"`    // Originating plan ID.
	Plan   Plan   `gorm:"foreignKey:PlanID"` // Originating plan.

	PendingPolicyID uint64 `gorm:"not null;index"` // Consumed slot ID.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
