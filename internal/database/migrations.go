package database

import (
	"gorm.io/gorm"

	"github.com/hadrian75/campusfound/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CampusProfile{},
		&models.CampusRole{},
		&models.EmailVerificationToken{},
		&models.PasswordResetToken{},
		&models.Item{},
		&models.ItemImage{},
		&models.Claim{},
		&models.ClaimImage{},
		&models.Notification{},
	)
}

// SeedData populates the campus role reference table.
func SeedData(db *gorm.DB) error {
	roles := []models.CampusRole{
		{ID: 1, Name: "Student"},
		{ID: 2, Name: "Lecturer"},
		{ID: 3, Name: "Staff"},
	}

	for _, role := range roles {
		if err := db.Where(models.CampusRole{ID: role.ID}).Attrs(role).FirstOrCreate(&models.CampusRole{}).Error; err != nil {
			return err
		}
	}

	return nil
}
