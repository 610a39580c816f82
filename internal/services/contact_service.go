package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"

	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/repository"
)

var ErrInvalidContact = errors.New("invalid contact details")

// ContactRequest is a contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=100"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required"`
}

// NewsletterRequest is a newsletter sign-up
type NewsletterRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

// SubscribeResult reports whether the address was already subscribed
type SubscribeResult struct {
	Subscriber *models.NewsletterSubscriber `json:"subscriber"`
	Created    bool                         `json:"created"`
}

// ContactService stores contact messages and newsletter sign-ups
type ContactService struct {
	repo repository.ContactRepositoryInterface
}

// NewContactService creates a contact service
func NewContactService(repo repository.ContactRepositoryInterface) *ContactService {
	return &ContactService{repo: repo}
}

// SendMessage saves a contact form message
func (s *ContactService) SendMessage(ctx context.Context, req ContactRequest) (*models.ContactMessage, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContact, err)
	}

	message := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.repo.CreateContactMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	return message, nil
}

// Subscribe adds an email to the newsletter. Subscribing twice is not an error.
func (s *ContactService) Subscribe(ctx context.Context, req NewsletterRequest) (*SubscribeResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := binding.Validator.ValidateStruct(&NewsletterRequest{Email: email}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContact, err)
	}

	existing, err := s.repo.GetSubscriberByEmail(ctx, email)
	if err == nil {
		return &SubscribeResult{Subscriber: existing}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up subscriber: %w", err)
	}

	subscriber := &models.NewsletterSubscriber{Email: email}
	created, err := s.repo.CreateSubscriber(ctx, subscriber)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}
	return &SubscribeResult{Subscriber: subscriber, Created: created}, nil
}
