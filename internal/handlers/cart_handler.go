package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/navafv/familyplus/internal/middleware"
	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/services"
)

// CartManager is the cart behaviour used by CartHandler
type CartManager interface {
	Add(ctx context.Context, owner models.CartOwner, req services.AddToCartRequest) (*models.CartItem, error)
	Decrement(ctx context.Context, owner models.CartOwner, itemID uint) (*models.CartItem, error)
	Remove(ctx context.Context, owner models.CartOwner, itemID uint) error
	Summary(ctx context.Context, owner models.CartOwner) (*services.CartSummary, error)
}

// DecrementResponse is the state of a line after a decrement
type DecrementResponse struct {
	Item    *models.CartItem `json:"item,omitempty"`
	Removed bool             `json:"removed"`
}

// CartHandler handles cart requests for guests and signed-in users
type CartHandler struct {
	carts CartManager
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts CartManager) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart returns the caller's cart
// @Summary Get cart
// @Tags cart
// @Produce json
// @Param X-Cart-ID header string false "Guest cart id"
// @Success 200 {object} services.CartSummary
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	summary, err := h.carts.Summary(c.Request.Context(), middleware.GetCartOwner(c))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AddItem adds a product to the cart
// @Summary Add to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param item body services.AddToCartRequest true "Product and variations"
// @Success 200 {object} models.CartItem
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req services.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	item, err := h.carts.Add(c.Request.Context(), middleware.GetCartOwner(c), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DecrementItem lowers a line's quantity by one
// @Summary Decrement cart item
// @Tags cart
// @Produce json
// @Param id path int true "Cart item ID"
// @Success 200 {object} DecrementResponse
// @Failure 404 {object} ErrorResponse
// @Router /cart/items/{id}/decrement [post]
func (h *CartHandler) DecrementItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.carts.Decrement(c.Request.Context(), middleware.GetCartOwner(c), itemID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DecrementResponse{Item: item, Removed: item == nil})
}

// RemoveItem deletes a cart line
// @Summary Remove cart item
// @Tags cart
// @Produce json
// @Param id path int true "Cart item ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.carts.Remove(c.Request.Context(), middleware.GetCartOwner(c), itemID); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Item removed from cart"})
}
