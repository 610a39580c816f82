package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/repository"
)

var ErrInvalidRating = errors.New("rating must be between 0.5 and 5 in steps of 0.5")

// ReviewRequest is a submitted product review
type ReviewRequest struct {
	Subject string  `json:"subject" binding:"max=100"`
	Review  string  `json:"review" binding:"max=500"`
	Rating  float64 `json:"rating" binding:"required"`
}

// ReviewResult reports whether the review was new
type ReviewResult struct {
	Review  *models.ReviewRating `json:"review"`
	Created bool                 `json:"created"`
}

// ReviewService records product reviews
type ReviewService struct {
	catalog repository.CatalogRepositoryInterface
}

// NewReviewService creates a review service
func NewReviewService(catalog repository.CatalogRepositoryInterface) *ReviewService {
	return &ReviewService{catalog: catalog}
}

// ValidRating accepts 0.5 through 5 in half steps
func ValidRating(rating float64) bool {
	if rating < 0.5 || rating > 5 {
		return false
	}
	return math.Mod(rating*2, 1) == 0
}

// Submit stores the user's review of a product, replacing any earlier one.
// The client IP is only recorded on the first submission.
func (s *ReviewService) Submit(ctx context.Context, userID string, productID uint, req ReviewRequest, clientIP string) (*ReviewResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if !ValidRating(req.Rating) {
		return nil, ErrInvalidRating
	}

	if _, err := s.catalog.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	review, err := s.catalog.GetReview(ctx, userID, productID)
	created := false
	switch {
	case errors.Is(err, repository.ErrNotFound):
		created = true
		review = &models.ReviewRating{
			ProductID: productID,
			UserID:    userID,
			IP:        clientIP,
			Status:    true,
		}
	case err != nil:
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	review.Subject = strings.TrimSpace(req.Subject)
	review.Review = strings.TrimSpace(req.Review)
	review.Rating = req.Rating

	if err := s.catalog.SaveReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	return &ReviewResult{Review: review, Created: created}, nil
}
