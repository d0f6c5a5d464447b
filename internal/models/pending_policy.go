package models

import (
	"time"

	"gorm.io/gorm"
)

// PendingPolicyStatus represents the lifecycle state of a policy slot.
type PendingPolicyStatus string

// PendingPolicyStatus constants define slot lifecycle states.
const (
	// PendingPolicyStatusUnused marks a slot that can still be activated.
	PendingPolicyStatusUnused PendingPolicyStatus = "unused"
	// PendingPolicyStatusUsed marks a slot consumed by an activation.
	PendingPolicyStatusUsed PendingPolicyStatus = "used"
)

// PendingPolicy is one unredeemed unit of a plan, redeemable into exactly
// one policy. Slots transition unused -> used exactly once and are
// soft-deleted in the same transaction that creates the policy.
type PendingPolicy struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	PlanID uint64 `gorm:"not null;index"`    // Parent plan ID.
	Plan   Plan   `gorm:"foreignKey:PlanID"` // Parent plan.

	Status PendingPolicyStatus `gorm:"type:varchar(16);not null;default:'unused'"` // Slot state.

	CreatedAt time.Time      `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime"` // Last update timestamp.
	DeletedAt gorm.DeletedAt `gorm:"index"`                   // Retirement marker.
}
