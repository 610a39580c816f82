package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/services"
)

// ContactManager stores contact messages and newsletter sign-ups
type ContactManager interface {
	SendMessage(ctx context.Context, req services.ContactRequest) (*models.ContactMessage, error)
	Subscribe(ctx context.Context, req services.NewsletterRequest) (*services.SubscribeResult, error)
}

// ContactHandler handles the contact form and newsletter
type ContactHandler struct {
	contacts ContactManager
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contacts ContactManager) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// SendMessage saves a contact form message
// @Summary Contact us
// @Tags contact
// @Accept json
// @Produce json
// @Param message body services.ContactRequest true "Message"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /contact [post]
func (h *ContactHandler) SendMessage(c *gin.Context) {
	var req services.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	if _, err := h.contacts.SendMessage(c.Request.Context(), req); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Your message has been sent successfully!"})
}

// Subscribe adds an email to the newsletter
// @Summary Newsletter sign-up
// @Tags contact
// @Accept json
// @Produce json
// @Param subscription body services.NewsletterRequest true "Email"
// @Success 200 {object} MessageResponse
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /newsletter [post]
func (h *ContactHandler) Subscribe(c *gin.Context) {
	var req services.NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	result, err := h.contacts.Subscribe(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !result.Created {
		c.JSON(http.StatusOK, MessageResponse{Message: "You are already subscribed."})
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Thank you for subscribing!"})
}
