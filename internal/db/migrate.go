package db

import (
	"fmt"

	"github.com/covergrid/insurance-api/internal/models"
	"gorm.io/gorm"
)

// Migrate runs schema migrations for all entities.
//
// The composite unique index on policies (user_id, product_id) and the
// unique policy_number index come from the model tags; they are the
// database-level backstop for the activation workflow's duplicate checks.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.ProductCategory{},
		&models.Product{},
		&models.Plan{},
		&models.PendingPolicy{},
		&models.Policy{},
		&models.WalletTransaction{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	return nil
}
