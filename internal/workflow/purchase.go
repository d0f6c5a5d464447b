package workflow

import (
	"context"
	"errors"
	"fmt"

	dbutil "github.com/covergrid/insurance-api/internal/db"
	"github.com/covergrid/insurance-api/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// balanceEpsilon is the tolerance for balance comparisons on the
// decimal-backed float columns.
const balanceEpsilon = 0.01

// PurchaseService executes the plan purchase workflow: it validates the
// request, then atomically debits the wallet, creates the plan, fans out
// the pending policy slots, and records the wallet transaction.
type PurchaseService struct {
	db                *gorm.DB
	logger            *log.Entry
	enforceSinglePlan bool
}

// PurchaseOption customizes a PurchaseService.
type PurchaseOption func(*PurchaseService)

// WithSinglePlanRule re-enables the legacy one-plan-per-user-per-product
// restriction. The rule was relaxed in the current product design, so it
// is off unless configured.
func WithSinglePlanRule(enabled bool) PurchaseOption {
	return func(s *PurchaseService) { s.enforceSinglePlan = enabled }
}

// NewPurchaseService constructs a PurchaseService.
func NewPurchaseService(db *gorm.DB, opts ...PurchaseOption) *PurchaseService {
	s := &PurchaseService{
		db:     db,
		logger: log.WithField("component", "purchase"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Purchase buys quantity units of a product for a user and returns the
// hydrated plan. All writes happen in one transaction; on any failure the
// wallet balance and slot inventory are left untouched.
func (s *PurchaseService) Purchase(ctx context.Context, userID, productID uint64, quantity int) (*models.Plan, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	entry := s.logger.WithFields(log.Fields{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	var user models.User
	if errFind := s.db.WithContext(ctx).Preload("Wallet").First(&user, userID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("purchase: load user: %w", errFind)
	}
	if user.Wallet == nil {
		return nil, ErrWalletMissing
	}

	var product models.Product
	if errFind := s.db.WithContext(ctx).First(&product, productID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("purchase: load product: %w", errFind)
	}

	totalAmount := product.Price * float64(quantity)

	if s.enforceSinglePlan {
		var existing int64
		if errCount := s.db.WithContext(ctx).Model(&models.Plan{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Count(&existing).Error; errCount != nil {
			return nil, fmt.Errorf("purchase: count plans: %w", errCount)
		}
		if existing > 0 {
			return nil, ErrSinglePlanViolation
		}
	}

	// Fast-fail before opening the transaction; the authoritative check
	// happens again under the row lock.
	if user.Wallet.Balance+balanceEpsilon < totalAmount {
		return nil, &InsufficientFundsError{Required: totalAmount, Available: user.Wallet.Balance}
	}

	var created models.Plan
	var insufficient *InsufficientFundsError
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if errLock := dbutil.ApplyRowLock(tx.WithContext(ctx)).
			Where("user_id = ?", userID).
			First(&wallet).Error; errLock != nil {
			return errLock
		}
		if wallet.Balance+balanceEpsilon < totalAmount {
			insufficient = &InsufficientFundsError{Required: totalAmount, Available: wallet.Balance}
			return insufficient
		}

		if errDebit := tx.WithContext(ctx).
			Model(&models.Wallet{}).
			Where("id = ?", wallet.ID).
			Update("balance", gorm.Expr("balance - ?", totalAmount)).Error; errDebit != nil {
			return errDebit
		}

		plan := models.Plan{
			UserID:      userID,
			ProductID:   productID,
			Quantity:    quantity,
			TotalAmount: totalAmount,
		}
		if errCreate := tx.WithContext(ctx).Create(&plan).Error; errCreate != nil {
			return errCreate
		}

		slots := make([]models.PendingPolicy, 0, quantity)
		for i := 0; i < quantity; i++ {
			slots = append(slots, models.PendingPolicy{
				PlanID: plan.ID,
				Status: models.PendingPolicyStatusUnused,
			})
		}
		if errCreate := tx.WithContext(ctx).Create(&slots).Error; errCreate != nil {
			return errCreate
		}

		audit := models.WalletTransaction{
			UserID:   userID,
			WalletID: wallet.ID,
			PlanID:   plan.ID,
			Amount:   totalAmount,
		}
		if errCreate := tx.WithContext(ctx).Create(&audit).Error; errCreate != nil {
			return errCreate
		}

		created = plan
		return nil
	})
	if errTx != nil {
		if insufficient != nil && errors.Is(errTx, insufficient) {
			return nil, insufficient
		}
		entry.WithError(errTx).Error("purchase transaction failed")
		return nil, fmt.Errorf("purchase: transaction: %w", errTx)
	}

	entry.WithFields(log.Fields{
		"plan_id":      created.ID,
		"total_amount": created.TotalAmount,
	}).Info("plan purchased")

	hydrated, errLoad := NewQueries(s.db).PlanByID(ctx, created.ID)
	if errLoad != nil {
		return nil, fmt.Errorf("purchase: reload plan: %w", errLoad)
	}
	return hydrated, nil
}
