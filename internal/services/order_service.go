package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/navafv/familyplus/internal/clients"
	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/repository"
)

var (
	ErrUserRequired    = errors.New("user is required")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidCheckout = errors.New("invalid checkout details")
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrCartChanged     = errors.New("cart changed since the order was placed")
	// ErrInsufficientStock is shared with the repository so a failed guarded
	// decrement and a failed locked read report the same error
	ErrInsufficientStock = repository.ErrInsufficientStock
)

// OrderEventPublisher publishes order lifecycle events
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
	PublishOrderPaid(ctx context.Context, order *models.Order, items []models.OrderProduct) error
}

// OrderService defines the checkout workflow
type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, req CheckoutRequest, clientIP string) (*PlaceOrderResult, error)
	RecordPayment(ctx context.Context, userID, orderNumber string) (*PaymentResult, error)
	GetConfirmation(ctx context.Context, orderNumber string) (*ConfirmationResult, error)
}

// CheckoutRequest holds the checkout form fields
type CheckoutRequest struct {
	FirstName    string `json:"first_name" binding:"required,max=50"`
	LastName     string `json:"last_name" binding:"required,max=50"`
	Phone        string `json:"phone" binding:"required,max=20"`
	Email        string `json:"email" binding:"required,email,max=100"`
	AddressLine1 string `json:"address_line_1" binding:"required,max=100"`
	AddressLine2 string `json:"address_line_2" binding:"max=100"`
	Country      string `json:"country" binding:"required,max=50"`
	State        string `json:"state" binding:"required,max=50"`
	City         string `json:"city" binding:"required,max=50"`
	OrderNote    string `json:"order_note" binding:"max=100"`
}

// Normalize trims surrounding whitespace from every field
func (r *CheckoutRequest) Normalize() {
	for _, field := range []*string{
		&r.FirstName, &r.LastName, &r.Phone, &r.Email, &r.AddressLine1,
		&r.AddressLine2, &r.Country, &r.State, &r.City, &r.OrderNote,
	} {
		*field = strings.TrimSpace(*field)
	}
}

// Validate checks the binding rules of the form
func (r *CheckoutRequest) Validate() error {
	if err := binding.Validator.ValidateStruct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCheckout, err)
	}
	return nil
}

// PaymentRequest is the payment submission
type PaymentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// PlaceOrderResult is a pending order with the totals shown before payment
type PlaceOrderResult struct {
	Order      *models.Order     `json:"order"`
	CartItems  []models.CartItem `json:"cartItems"`
	Total      int64             `json:"total"`
	Quantity   int               `json:"quantity"`
	Shipping   int64             `json:"shipping"`
	GrandTotal int64             `json:"grandTotal"`
}

// PaymentResult is a fulfilled order
type PaymentResult struct {
	Order      *models.Order         `json:"order"`
	Payment    *models.Payment       `json:"payment"`
	Items      []models.OrderProduct `json:"items"`
	RedirectTo string                `json:"redirectTo"`
}

// ConfirmationStatus is the outcome of an order confirmation lookup
type ConfirmationStatus string

const (
	ConfirmationFound      ConfirmationStatus = "FOUND"
	ConfirmationNotFound   ConfirmationStatus = "NOT_FOUND"
	ConfirmationNotYetPaid ConfirmationStatus = "NOT_YET_PAID"
)

// ConfirmationResult reports a paid order, or why none could be shown
type ConfirmationResult struct {
	Status   ConfirmationStatus    `json:"status"`
	Order    *models.Order         `json:"order,omitempty"`
	Items    []models.OrderProduct `json:"items,omitempty"`
	SubTotal int64                 `json:"subTotal"`
}

// OrderSettings are the store-wide values applied to new orders
type OrderSettings struct {
	StoreName     string
	ShippingFee   int64
	PaymentMethod string
	PaymentStatus string
	PublicURL     string
}

type orderService struct {
	repo      repository.OrderRepositoryInterface
	generator OrderNumberGenerator
	notifier  clients.NotificationClient
	publisher OrderEventPublisher
	settings  OrderSettings
	logger    *logrus.Entry
}

// NewOrderService creates the checkout service. notifier and publisher may be nil.
func NewOrderService(repo repository.OrderRepositoryInterface, generator OrderNumberGenerator, notifier clients.NotificationClient, publisher OrderEventPublisher, settings OrderSettings, logger *logrus.Logger) OrderService {
	if settings.PaymentMethod == "" {
		settings.PaymentMethod = models.PaymentMethodCashOnDelivery
	}
	if settings.PaymentStatus == "" {
		settings.PaymentStatus = models.PaymentStatusPending
	}
	return &orderService{
		repo:      repo,
		generator: generator,
		notifier:  notifier,
		publisher: publisher,
		settings:  settings,
		logger:    logger.WithField("component", "order-service"),
	}
}

// OrderCompleteURL is where the client is sent once payment is recorded
func OrderCompleteURL(orderNumber string) string {
	return "/orders/order_complete?order_number=" + url.QueryEscape(orderNumber)
}

// CartTotals sums unit price times quantity and the item count of a cart
func CartTotals(items []models.CartItem) (total int64, quantity int) {
	for i := range items {
		total += items[i].SubTotal()
		quantity += items[i].Quantity
	}
	return total, quantity
}

// PlaceOrder turns the user's cart into a pending order
func (s *orderService) PlaceOrder(ctx context.Context, userID string, req CheckoutRequest, clientIP string) (*PlaceOrderResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	cartItems, err := s.repo.ListCartItemsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	total, quantity := CartTotals(cartItems)
	grandTotal := total + s.settings.ShippingFee

	var pending *models.Order
	err = s.repo.WithTransaction(ctx, func(txRepo repository.OrderRepositoryInterface) error {
		order := &models.Order{
			UserID:       userID,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Email:        req.Email,
			AddressLine1: req.AddressLine1,
			AddressLine2: req.AddressLine2,
			Country:      req.Country,
			State:        req.State,
			City:         req.City,
			OrderNote:    req.OrderNote,
			OrderTotal:   grandTotal,
			Shipping:     s.settings.ShippingFee,
			IP:           clientIP,
		}
		if err := txRepo.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		orderNumber := s.generator.Generate(order.ID)
		if err := txRepo.SetOrderNumber(ctx, order.ID, orderNumber); err != nil {
			return fmt.Errorf("failed to set order number: %w", err)
		}

		reloaded, err := txRepo.GetPendingOrder(ctx, userID, orderNumber)
		if err != nil {
			return fmt.Errorf("failed to reload order: %w", err)
		}
		pending = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"orderNumber": pending.OrderNumber,
		"userID":      userID,
		"grandTotal":  grandTotal,
	}).Info("Order placed")

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, pending); err != nil {
			s.logger.WithError(err).Warn("Failed to publish order placed event")
		}
	}

	return &PlaceOrderResult{
		Order:      pending,
		CartItems:  cartItems,
		Total:      total,
		Quantity:   quantity,
		Shipping:   s.settings.ShippingFee,
		GrandTotal: grandTotal,
	}, nil
}

// RecordPayment pays a pending order and fulfills it from the user's cart.
// Everything up to clearing the cart commits or rolls back together.
func (s *orderService) RecordPayment(ctx context.Context, userID, orderNumber string) (*PaymentResult, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrOrderNotFound
	}

	var (
		order   *models.Order
		payment *models.Payment
		items   []models.OrderProduct
	)

	err := s.repo.WithTransaction(ctx, func(txRepo repository.OrderRepositoryInterface) error {
		var err error

		// Step 1: Lock the pending order
		order, err = txRepo.LockPendingOrder(ctx, userID, orderNumber)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		cartItems, err := txRepo.LockCartItemsByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		// Step 2: Record the payment and move the order to ordered
		payment = &models.Payment{
			UserID:        userID,
			PaymentID:     order.OrderNumber,
			PaymentMethod: s.settings.PaymentMethod,
			AmountPaid:    order.OrderTotal,
			Status:        s.settings.PaymentStatus,
		}
		if err := txRepo.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		if err := txRepo.MarkOrdered(ctx, order, payment.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to mark order as ordered: %w", err)
		}
		order.Payment = payment

		// Step 3: Snapshot each cart line and take it out of stock
		items = make([]models.OrderProduct, 0, len(cartItems))
		var subtotal int64
		for i := range cartItems {
			item, err := s.fulfillCartItem(ctx, txRepo, order, payment, &cartItems[i])
			if err != nil {
				return err
			}
			items = append(items, *item)
			subtotal += item.LineTotal()
		}

		// The amount paid is the placed total, so the fulfilled lines must add up to it
		if fulfilled := subtotal + order.Shipping; fulfilled != order.OrderTotal {
			s.logger.WithFields(logrus.Fields{
				"orderNumber": order.OrderNumber,
				"orderTotal":  order.OrderTotal,
				"fulfilled":   fulfilled,
			}).Warn("Cart no longer matches the placed order")
			return fmt.Errorf("%w: order total %d, cart now %d", ErrCartChanged, order.OrderTotal, fulfilled)
		}

		// Step 4: Consume the cart
		cleared, err := txRepo.ClearCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		if cleared != int64(len(cartItems)) {
			return fmt.Errorf("%w: fulfilled %d cart items, cleared %d", ErrCartChanged, len(cartItems), cleared)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = items
	s.logger.WithFields(logrus.Fields{
		"orderNumber": order.OrderNumber,
		"userID":      userID,
		"items":       len(items),
		"amount":      payment.AmountPaid,
	}).Info("Payment recorded and order fulfilled")

	s.afterPayment(ctx, order, items)

	return &PaymentResult{
		Order:      order,
		Payment:    payment,
		Items:      items,
		RedirectTo: OrderCompleteURL(order.OrderNumber),
	}, nil
}

func (s *orderService) fulfillCartItem(ctx context.Context, txRepo repository.OrderRepositoryInterface, order *models.Order, payment *models.Payment, cartItem *models.CartItem) (*models.OrderProduct, error) {
	product, err := txRepo.LockProduct(ctx, cartItem.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, cartItem.ProductID)
		}
		return nil, fmt.Errorf("failed to lock product %d: %w", cartItem.ProductID, err)
	}
	if product.Stock < cartItem.Quantity {
		return nil, fmt.Errorf("%w: %s has %d left, %d requested", ErrInsufficientStock, product.Name, product.Stock, cartItem.Quantity)
	}

	labels := make(pq.StringArray, 0, len(cartItem.Variations))
	for _, v := range cartItem.Variations {
		labels = append(labels, v.Label())
	}

	item := &models.OrderProduct{
		OrderID:         order.ID,
		PaymentID:       &payment.ID,
		UserID:          order.UserID,
		ProductID:       product.ID,
		Quantity:        cartItem.Quantity,
		ProductPrice:    product.Price,
		Ordered:         true,
		Variations:      cartItem.Variations,
		VariationLabels: labels,
	}
	if err := txRepo.CreateOrderProduct(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create order product: %w", err)
	}

	if err := txRepo.DecrementStock(ctx, product.ID, cartItem.Quantity); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}
		return nil, fmt.Errorf("failed to decrement stock: %w", err)
	}

	product.Stock -= cartItem.Quantity
	item.Product = product
	return item, nil
}

// afterPayment runs the best-effort steps that follow a committed payment
func (s *orderService) afterPayment(ctx context.Context, order *models.Order, items []models.OrderProduct) {
	if s.notifier != nil {
		if err := s.notifier.SendOrderConfirmation(ctx, s.buildNotification(order, items)); err != nil {
			s.logger.WithError(err).WithField("orderNumber", order.OrderNumber).Warn("Failed to send order confirmation email")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderPaid(ctx, order, items); err != nil {
			s.logger.WithError(err).WithField("orderNumber", order.OrderNumber).Warn("Failed to publish order paid event")
		}
	}
}

func (s *orderService) buildNotification(order *models.Order, items []models.OrderProduct) *clients.OrderNotification {
	lines := make([]clients.OrderItem, len(items))
	var subtotal int64
	for i, item := range items {
		name := strconv.FormatUint(uint64(item.ProductID), 10)
		if item.Product != nil {
			name = item.Product.Name
		}
		lines[i] = clients.OrderItem{
			Name:       name,
			Quantity:   item.Quantity,
			Price:      formatAmount(item.ProductPrice),
			LineTotal:  formatAmount(item.LineTotal()),
			Variations: item.VariationLabels,
		}
		subtotal += item.LineTotal()
	}

	notification := &clients.OrderNotification{
		OrderNumber:   order.OrderNumber,
		OrderDate:     order.CreatedAt.Format("January 2, 2006"),
		CustomerEmail: order.Email,
		CustomerName:  order.FullName(),
		Phone:         order.Phone,
		Items:         lines,
		Subtotal:      formatAmount(subtotal),
		Shipping:      formatAmount(order.Shipping),
		Total:         formatAmount(order.OrderTotal),
		ShippingAddress: &clients.Address{
			Name:    order.FullName(),
			Line1:   order.AddressLine1,
			Line2:   order.AddressLine2,
			City:    order.City,
			State:   order.State,
			Country: order.Country,
		},
		BusinessName: s.settings.StoreName,
	}
	if order.Payment != nil {
		notification.PaymentMethod = order.Payment.PaymentMethod
		notification.PaymentStatus = order.Payment.Status
	}
	if s.settings.PublicURL != "" {
		notification.OrderDetailsURL = s.settings.PublicURL + OrderCompleteURL(order.OrderNumber)
	}
	return notification
}

// GetConfirmation looks up an order for the confirmation page
func (s *orderService) GetConfirmation(ctx context.Context, orderNumber string) (*ConfirmationResult, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return &ConfirmationResult{Status: ConfirmationNotFound}, nil
	}

	order, err := s.repo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &ConfirmationResult{Status: ConfirmationNotFound}, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !order.IsOrdered {
		return &ConfirmationResult{Status: ConfirmationNotYetPaid}, nil
	}

	var subtotal int64
	for i := range order.Items {
		subtotal += order.Items[i].LineTotal()
	}

	return &ConfirmationResult{
		Status:   ConfirmationFound,
		Order:    order,
		Items:    order.Items,
		SubTotal: subtotal,
	}, nil
}

func formatAmount(amount int64) string {
	return strconv.FormatInt(amount, 10)
}
