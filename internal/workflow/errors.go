package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for precondition and lookup failures. Handlers map
// these onto HTTP statuses; none of them is raised after a transaction
// has started.
var (
	// ErrUserNotFound indicates the purchasing user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrWalletMissing indicates the user has no associated wallet.
	ErrWalletMissing = errors.New("user has no wallet")
	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidQuantity indicates a non-positive purchase quantity.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrSinglePlanViolation indicates the user already holds a plan for
	// the product while the single-plan rule is enforced.
	ErrSinglePlanViolation = errors.New("user already has a plan for this product")

	// ErrSlotNotFound indicates the pending policy slot does not exist.
	ErrSlotNotFound = errors.New("pending policy not found")
	// ErrAlreadyActivated indicates the slot was consumed by an earlier
	// activation.
	ErrAlreadyActivated = errors.New("pending policy has already been used")
	// ErrOverrideUserNotFound indicates the activation override user does
	// not exist.
	ErrOverrideUserNotFound = errors.New("override user not found")
	// ErrDuplicatePolicy indicates the effective owner already holds a
	// policy for the product.
	ErrDuplicatePolicy = errors.New("user already has a policy for this product")

	// ErrPlanNotFound indicates a plan lookup missed.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrPolicyNotFound indicates a policy lookup missed.
	ErrPolicyNotFound = errors.New("policy not found")
	// ErrCategoryNotFound indicates a category lookup missed.
	ErrCategoryNotFound = errors.New("product category not found")
)

// InsufficientFundsError reports a wallet balance too low for a purchase.
type InsufficientFundsError struct {
	Required  float64 // Amount the purchase needs.
	Available float64 // Balance the wallet holds.
}

// Error formats the shortfall.
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: required %.2f, available %.2f", e.Required, e.Available)
}
