package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/navafv/familyplus/internal/middleware"
	"github.com/navafv/familyplus/internal/services"
)

// ReviewSubmitter records product reviews
type ReviewSubmitter interface {
	Submit(ctx context.Context, userID string, productID uint, req services.ReviewRequest, clientIP string) (*services.ReviewResult, error)
}

// ReviewResponse acknowledges a review
type ReviewResponse struct {
	*services.ReviewResult
	Message string `json:"message"`
}

// ReviewHandler handles review submissions
type ReviewHandler struct {
	reviews ReviewSubmitter
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews ReviewSubmitter) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// SubmitReview creates or updates the user's review of a product
// @Summary Submit a review
// @Tags reviews
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param id path int true "Product ID"
// @Param review body services.ReviewRequest true "Review"
// @Success 200 {object} ReviewResponse
// @Success 201 {object} ReviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /store/products/{id}/reviews [post]
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	result, err := h.reviews.Submit(c.Request.Context(), middleware.GetUserID(c), productID, req, c.ClientIP())
	if err != nil {
		respondWithError(c, err)
		return
	}

	if result.Created {
		c.JSON(http.StatusCreated, ReviewResponse{ReviewResult: result, Message: "Thank you! Your review has been submitted."})
		return
	}
	c.JSON(http.StatusOK, ReviewResponse{ReviewResult: result, Message: "Thank you! Your review has been updated."})
}
