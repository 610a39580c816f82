package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/navafv/familyplus/internal/models"
)

// ContactRepositoryInterface defines contact form and newsletter data operations
type ContactRepositoryInterface interface {
	CreateContactMessage(ctx context.Context, message *models.ContactMessage) error
	GetSubscriberByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	CreateSubscriber(ctx context.Context, subscriber *models.NewsletterSubscriber) (bool, error)
}

// ContactRepository handles database operations for contact messages and subscribers
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// CreateContactMessage stores a contact form message
func (r *ContactRepository) CreateContactMessage(ctx context.Context, message *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// GetSubscriberByEmail finds a subscriber, ignoring case
func (r *ContactRepository) GetSubscriberByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	var subscriber models.NewsletterSubscriber
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&subscriber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &subscriber, nil
}

// CreateSubscriber adds a newsletter subscriber and reports whether a row was
// inserted. When the email is already present subscriber is filled from it.
func (r *ContactRepository) CreateSubscriber(ctx context.Context, subscriber *models.NewsletterSubscriber) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(subscriber)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Lost a race with a concurrent subscribe
	existing, err := r.GetSubscriberByEmail(ctx, subscriber.Email)
	if err != nil {
		return false, err
	}
	*subscriber = *existing
	return false, nil
}
