package workflow

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/covergrid/insurance-api/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ActivationService converts one pending policy slot into a numbered
// policy. The slot status flip, slot retirement, and policy insert happen
// in a single transaction; a crash can never strand a half-activated slot.
type ActivationService struct {
	db     *gorm.DB
	logger *log.Entry
}

// NewActivationService constructs an ActivationService.
func NewActivationService(db *gorm.DB) *ActivationService {
	return &ActivationService{
		db:     db,
		logger: log.WithField("component", "activation"),
	}
}

// Activate redeems the pending policy slot into a policy. When
// overrideUserID is non-nil the policy is issued to that user instead of
// the plan's owner. Activation is strictly one-shot: a consumed slot
// yields ErrAlreadyActivated.
func (s *ActivationService) Activate(ctx context.Context, pendingPolicyID uint64, overrideUserID *uint64) (*models.Policy, error) {
	entry := s.logger.WithField("pending_policy_id", pendingPolicyID)

	var slot models.PendingPolicy
	if errFind := s.db.WithContext(ctx).Unscoped().
		Preload("Plan.User").
		Preload("Plan.Product.Category").
		First(&slot, pendingPolicyID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("activate: load slot: %w", errFind)
	}

	if slot.Status == models.PendingPolicyStatusUsed || slot.DeletedAt.Valid {
		return nil, ErrAlreadyActivated
	}

	ownerID := slot.Plan.UserID
	if overrideUserID != nil {
		var override models.User
		if errFind := s.db.WithContext(ctx).First(&override, *overrideUserID).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return nil, ErrOverrideUserNotFound
			}
			return nil, fmt.Errorf("activate: load override user: %w", errFind)
		}
		ownerID = override.ID
	}

	var existing int64
	if errCount := s.db.WithContext(ctx).Model(&models.Policy{}).
		Where("user_id = ? AND product_id = ?", ownerID, slot.Plan.ProductID).
		Count(&existing).Error; errCount != nil {
		return nil, fmt.Errorf("activate: count policies: %w", errCount)
	}
	if existing > 0 {
		return nil, ErrDuplicatePolicy
	}

	policyNumber := GeneratePolicyNumber(slot.Plan.Product.Name)

	var created models.Policy
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		policy := models.Policy{
			PolicyNumber:    policyNumber,
			UserID:          ownerID,
			ProductID:       slot.Plan.ProductID,
			PlanID:          slot.PlanID,
			PendingPolicyID: slot.ID,
		}
		if errCreate := tx.WithContext(ctx).Create(&policy).Error; errCreate != nil {
			return errCreate
		}

		if errMark := tx.WithContext(ctx).
			Model(&models.PendingPolicy{}).
			Where("id = ?", slot.ID).
			Update("status", models.PendingPolicyStatusUsed).Error; errMark != nil {
			return errMark
		}
		if errRetire := tx.WithContext(ctx).Delete(&models.PendingPolicy{}, slot.ID).Error; errRetire != nil {
			return errRetire
		}

		created = policy
		return nil
	})
	if errTx != nil {
		entry.WithError(errTx).Error("activation transaction failed")
		return nil, fmt.Errorf("activate: transaction: %w", errTx)
	}

	entry.WithFields(log.Fields{
		"policy_id":     created.ID,
		"policy_number": created.PolicyNumber,
		"user_id":       created.UserID,
	}).Info("policy activated")

	hydrated, errLoad := NewQueries(s.db).PolicyByID(ctx, created.ID)
	if errLoad != nil {
		return nil, fmt.Errorf("activate: reload policy: %w", errLoad)
	}
	return hydrated, nil
}

// policyNumberCharset holds the base36 alphabet for the random suffix.
const policyNumberCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GeneratePolicyNumber builds a policy number of the form
// POL-<prefix>-<millisecond timestamp>-<6-char base36 suffix>, where the
// prefix is the first three letters of the product name, uppercased.
// Uniqueness is probabilistic here; the unique column is the backstop.
func GeneratePolicyNumber(productName string) string {
	prefix := make([]rune, 0, 3)
	for _, r := range productName {
		if unicode.IsLetter(r) {
			prefix = append(prefix, unicode.ToUpper(r))
			if len(prefix) == 3 {
				break
			}
		}
	}
	if len(prefix) == 0 {
		prefix = []rune("POL")
	}

	var suffix strings.Builder
	for i := 0; i < 6; i++ {
		suffix.WriteByte(policyNumberCharset[rand.Intn(len(policyNumberCharset))])
	}
	return fmt.Sprintf("POL-%s-%d-%s", string(prefix), time.Now().UnixMilli(), suffix.String())
}
