package repository

import (
	"gorm.io/gorm"

	"github.com/navafv/familyplus/internal/models"
)

// Migrate runs GORM AutoMigrate for every storefront table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductGallery{},
		&models.Variation{},
		&models.ReviewRating{},
		&models.CartItem{},
		&models.Payment{},
		&models.Order{},
		&models.OrderProduct{},
		&models.ContactMessage{},
		&models.NewsletterSubscriber{},
		&models.ImportRun{},
	)
}
