package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/navafv/familyplus/internal/services"
)

// ErrorResponse is the body of every failed request. RedirectTo tells the
// storefront where to send the shopper next, when there is such a place.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

// MessageResponse is returned by endpoints that only acknowledge an action
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service health
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

type errorMapping struct {
	status     int
	code       string
	redirectTo string
}

var errorMappings = []struct {
	err error
	errorMapping
}{
	{services.ErrUserRequired, errorMapping{http.StatusUnauthorized, "UNAUTHORIZED", ""}},
	{services.ErrCartOwnerRequired, errorMapping{http.StatusBadRequest, "MISSING_CART", ""}},
	{services.ErrEmptyCart, errorMapping{http.StatusBadRequest, "EMPTY_CART", "/store"}},
	{services.ErrInvalidCheckout, errorMapping{http.StatusBadRequest, "INVALID_CHECKOUT", "/cart/checkout"}},
	{services.ErrCartChanged, errorMapping{http.StatusConflict, "CART_CHANGED", "/cart/checkout"}},
	{services.ErrInsufficientStock, errorMapping{http.StatusConflict, "INSUFFICIENT_STOCK", "/cart"}},
	{services.ErrOrderNotFound, errorMapping{http.StatusNotFound, "ORDER_NOT_FOUND", ""}},
	{services.ErrOrderNotPaid, errorMapping{http.StatusConflict, "ORDER_NOT_PAID", ""}},
	{services.ErrProductNotFound, errorMapping{http.StatusNotFound, "PRODUCT_NOT_FOUND", ""}},
	{services.ErrProductUnavailable, errorMapping{http.StatusConflict, "PRODUCT_UNAVAILABLE", ""}},
	{services.ErrCategoryNotFound, errorMapping{http.StatusNotFound, "CATEGORY_NOT_FOUND", ""}},
	{services.ErrCartItemNotFound, errorMapping{http.StatusNotFound, "CART_ITEM_NOT_FOUND", ""}},
	{services.ErrInvalidRating, errorMapping{http.StatusBadRequest, "INVALID_RATING", ""}},
	{services.ErrInvalidContact, errorMapping{http.StatusBadRequest, "VALIDATION_ERROR", ""}},
}

// respondWithError writes the ErrorResponse matching a service error.
// Unknown errors become a 500 without leaking internals.
func respondWithError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, ErrorResponse{
				Error:      m.code,
				Message:    err.Error(),
				RedirectTo: m.redirectTo,
			})
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "An unexpected error occurred",
	})
}

func respondInvalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "INVALID_REQUEST",
		Message: err.Error(),
	})
}

// parseIDParam reads a positive numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "INVALID_ID",
			Message: name + " must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}
