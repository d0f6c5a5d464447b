package workflow

import (
	"context"
	"errors"
	"fmt"

	dbutil "github.com/covergrid/insurance-api/internal/db"
	"github.com/covergrid/insurance-api/internal/models"

	"gorm.io/gorm"
)

// Queries is the read-only side of the workflows: catalog lookups and the
// plan/slot/policy listings used to verify workflow outcomes. Single-entity
// misses return the package's NotFound sentinels; lists return empty slices.
type Queries struct {
	db *gorm.DB
}

// NewQueries constructs a Queries reader.
func NewQueries(db *gorm.DB) *Queries {
	return &Queries{db: db}
}

// PlanByID loads one plan with its user, wallet, product, and category.
func (q *Queries) PlanByID(ctx context.Context, id uint64) (*models.Plan, error) {
	var plan models.Plan
	if errFind := q.db.WithContext(ctx).
		Preload("User.Wallet").
		Preload("Product.Category").
		First(&plan, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("queries: plan by id: %w", errFind)
	}
	return &plan, nil
}

// PlansByUser lists a user's plans, newest first.
func (q *Queries) PlansByUser(ctx context.Context, userID uint64) ([]models.Plan, error) {
	var plans []models.Plan
	if errFind := q.db.WithContext(ctx).
		Preload("User.Wallet").
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error; errFind != nil {
		return nil, fmt.Errorf("queries: plans by user: %w", errFind)
	}
	return plans, nil
}

// PendingPoliciesByPlan lists a plan's slots in creation order. Retired
// slots are included so a consumed slot still reports its used status;
// unusedOnly restricts the listing to slots that can still be activated.
func (q *Queries) PendingPoliciesByPlan(ctx context.Context, planID uint64, unusedOnly bool) ([]models.PendingPolicy, error) {
	query := q.db.WithContext(ctx).
		Preload("Plan.User").
		Preload("Plan.Product")
	if unusedOnly {
		query = query.Where("status = ?", models.PendingPolicyStatusUnused)
	} else {
		query = query.Unscoped()
	}
	var slots []models.PendingPolicy
	if errFind := query.
		Where("plan_id = ?", planID).
		Order("created_at ASC").
		Find(&slots).Error; errFind != nil {
		return nil, fmt.Errorf("queries: pending policies by plan: %w", errFind)
	}
	return slots, nil
}

// PendingPolicyByID loads one slot, retired or not.
func (q *Queries) PendingPolicyByID(ctx context.Context, id uint64) (*models.PendingPolicy, error) {
	var slot models.PendingPolicy
	if errFind := q.db.WithContext(ctx).Unscoped().
		Preload("Plan.User").
		Preload("Plan.Product").
		First(&slot, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("queries: pending policy by id: %w", errFind)
	}
	return &slot, nil
}

// Policies lists activated policies, newest first, optionally filtered by
// plan.
func (q *Queries) Policies(ctx context.Context, planID *uint64) ([]models.Policy, error) {
	query := q.db.WithContext(ctx).
		Preload("User").
		Preload("Product.Category").
		Preload("Plan")
	if planID != nil {
		query = query.Where("plan_id = ?", *planID)
	}
	var policies []models.Policy
	if errFind := query.Order("created_at DESC").Find(&policies).Error; errFind != nil {
		return nil, fmt.Errorf("queries: policies: %w", errFind)
	}
	return policies, nil
}

// PolicyByID loads one policy with its user, product, and category.
func (q *Queries) PolicyByID(ctx context.Context, id uint64) (*models.Policy, error) {
	var policy models.Policy
	if errFind := q.db.WithContext(ctx).
		Preload("User").
		Preload("Product.Category").
		Preload("Plan").
		First(&policy, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, fmt.Errorf("queries: policy by id: %w", errFind)
	}
	return &policy, nil
}

// Products lists the catalog with categories joined, oldest first. A
// non-empty search narrows by case-insensitive name match.
func (q *Queries) Products(ctx context.Context, search string) ([]models.Product, error) {
	query := q.db.WithContext(ctx).Preload("Category")
	if search != "" {
		pattern := dbutil.NormalizeLikePattern(q.db, "%"+search+"%")
		query = query.Where(dbutil.CaseInsensitiveLikeExpr(q.db, "name"), pattern)
	}
	var products []models.Product
	if errFind := query.Order("created_at ASC").Find(&products).Error; errFind != nil {
		return nil, fmt.Errorf("queries: products: %w", errFind)
	}
	return products, nil
}

// ProductByID loads one product with its category.
func (q *Queries) ProductByID(ctx context.Context, id uint64) (*models.Product, error) {
	var product models.Product
	if errFind := q.db.WithContext(ctx).
		Preload("Category").
		First(&product, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("queries: product by id: %w", errFind)
	}
	return &product, nil
}

// Categories lists all product categories, oldest first.
func (q *Queries) Categories(ctx context.Context) ([]models.ProductCategory, error) {
	var categories []models.ProductCategory
	if errFind := q.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&categories).Error; errFind != nil {
		return nil, fmt.Errorf("queries: categories: %w", errFind)
	}
	return categories, nil
}
