package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/navafv/familyplus/internal/middleware"
	"github.com/navafv/familyplus/internal/services"
)

// ReceiptGenerator renders the receipt of a user's paid order
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, userID, orderNumber string) ([]byte, error)
}

// ConfirmationResponse is a paid order as shown on the confirmation page
type ConfirmationResponse struct {
	*services.ConfirmationResult
	PaymentID string `json:"paymentId"`
}

// OrderHandler handles checkout, payment and order confirmation
type OrderHandler struct {
	orderService services.OrderService
	receipts     ReceiptGenerator
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService services.OrderService, receipts ReceiptGenerator) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		receipts:     receipts,
	}
}

// PlaceOrder creates a pending order from the user's cart
// @Summary Place an order
// @Description Creates a pending order from the cart and returns the totals to pay
// @Tags orders
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param checkout body services.CheckoutRequest true "Checkout form"
// @Success 201 {object} services.PlaceOrderResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /orders/place [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	// The form is validated by the service once the cart is known to be
	// non-empty, so only the JSON shape is checked here.
	var req services.CheckoutRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:      "INVALID_CHECKOUT",
			Message:    err.Error(),
			RedirectTo: "/cart/checkout",
		})
		return
	}

	result, err := h.orderService.PlaceOrder(c.Request.Context(), middleware.GetUserID(c), req, c.ClientIP())
	middleware.RecordOrderOperation("place", err == nil)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// RecordPayment pays and fulfills a pending order
// @Summary Record a payment
// @Description Records the payment of a pending order, takes the cart out of stock and clears it
// @Tags orders
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param payment body services.PaymentRequest true "Order to pay"
// @Success 200 {object} services.PaymentResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/payments [post]
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	var req services.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, err)
		return
	}

	result, err := h.orderService.RecordPayment(c.Request.Context(), middleware.GetUserID(c), req.OrderID)
	middleware.RecordOrderOperation("payment", err == nil)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// OrderComplete returns the confirmation of a paid order
// @Summary Order confirmation
// @Tags orders
// @Produce json
// @Param order_number query string true "Order number"
// @Success 200 {object} ConfirmationResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/order_complete [get]
func (h *OrderHandler) OrderComplete(c *gin.Context) {
	result, err := h.orderService.GetConfirmation(c.Request.Context(), c.Query("order_number"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	switch result.Status {
	case services.ConfirmationNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:      "ORDER_NOT_FOUND",
			Message:    "Order not found",
			RedirectTo: "/",
		})
	case services.ConfirmationNotYetPaid:
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:      "ORDER_NOT_PAID",
			Message:    "Order has not been paid yet",
			RedirectTo: "/",
		})
	default:
		resp := ConfirmationResponse{ConfirmationResult: result}
		if result.Order != nil && result.Order.Payment != nil {
			resp.PaymentID = result.Order.Payment.PaymentID
		}
		c.JSON(http.StatusOK, resp)
	}
}

// DownloadReceipt returns the PDF receipt of a paid order
// @Summary Download receipt
// @Tags orders
// @Produce application/pdf
// @Param orderNumber path string true "Order number"
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{orderNumber}/receipt [get]
func (h *OrderHandler) DownloadReceipt(c *gin.Context) {
	orderNumber := c.Param("orderNumber")

	data, err := h.receipts.GenerateReceipt(c.Request.Context(), middleware.GetUserID(c), orderNumber)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", services.ReceiptFilename(orderNumber)))
	c.Data(http.StatusOK, "application/pdf", data)
}
