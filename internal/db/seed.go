package db

import (
	"fmt"

	"github.com/covergrid/insurance-api/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Seed populates the initial catalog and sample customer accounts.
// It is idempotent: when categories or users already exist the
// corresponding section is skipped.
func Seed(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	var categoryCount int64
	if errCount := conn.Model(&models.ProductCategory{}).Count(&categoryCount).Error; errCount != nil {
		return fmt.Errorf("db: count categories: %w", errCount)
	}
	if categoryCount == 0 {
		if errSeed := seedCatalog(conn); errSeed != nil {
			return errSeed
		}
	} else {
		log.Info("seed: catalog already present, skipping")
	}

	var userCount int64
	if errCount := conn.Model(&models.User{}).Count(&userCount).Error; errCount != nil {
		return fmt.Errorf("db: count users: %w", errCount)
	}
	if userCount == 0 {
		if errSeed := seedUsers(conn); errSeed != nil {
			return errSeed
		}
	} else {
		log.Info("seed: users already present, skipping")
	}
	return nil
}

// seedCatalog inserts the default categories and products.
func seedCatalog(conn *gorm.DB) error {
	health := models.ProductCategory{Name: "Health", Description: "Health insurance products"}
	auto := models.ProductCategory{Name: "Auto", Description: "Auto insurance products"}
	if errCreate := conn.Create(&health).Error; errCreate != nil {
		return fmt.Errorf("db: seed health category: %w", errCreate)
	}
	if errCreate := conn.Create(&auto).Error; errCreate != nil {
		return fmt.Errorf("db: seed auto category: %w", errCreate)
	}

	products := []models.Product{
		{
			Name:       "Optimal Care Mini",
			Price:      10000,
			CategoryID: health.ID,
			Benefits:   datatypes.JSON(`["Outpatient care","Basic diagnostics"]`),
		},
		{
			Name:       "Optimal Care Standard",
			Price:      20000,
			CategoryID: health.ID,
			Benefits:   datatypes.JSON(`["Outpatient care","Inpatient care","Specialist consultations"]`),
		},
		{
			Name:       "Third-Party",
			Price:      5000,
			CategoryID: auto.ID,
			Benefits:   datatypes.JSON(`["Third-party liability"]`),
		},
		{
			Name:       "Comprehensive",
			Price:      15000,
			CategoryID: auto.ID,
			Benefits:   datatypes.JSON(`["Third-party liability","Own damage","Theft and fire"]`),
		},
	}
	if errCreate := conn.Create(&products).Error; errCreate != nil {
		return fmt.Errorf("db: seed products: %w", errCreate)
	}
	log.WithField("products", len(products)).Info("seed: catalog created")
	return nil
}

// seedUsers inserts the sample users with their wallets.
func seedUsers(conn *gorm.DB) error {
	users := []struct {
		name    string
		email   string
		phone   string
		balance float64
	}{
		{"John Doe", "john.doe@example.com", "+2348010000001", 100000},
		{"Jane Smith", "jane.smith@example.com", "+2348010000002", 75000},
		{"Bob Johnson", "bob.johnson@example.com", "+2348010000003", 50000},
	}
	for _, u := range users {
		user := models.User{Name: u.name, Email: u.email, Phone: u.phone}
		if errCreate := conn.Create(&user).Error; errCreate != nil {
			return fmt.Errorf("db: seed user %s: %w", u.email, errCreate)
		}
		wallet := models.Wallet{UserID: user.ID, Balance: u.balance}
		if errCreate := conn.Create(&wallet).Error; errCreate != nil {
			return fmt.Errorf("db: seed wallet for %s: %w", u.email, errCreate)
		}
	}
	log.WithField("users", len(users)).Info("seed: sample users created")
	return nil
}
