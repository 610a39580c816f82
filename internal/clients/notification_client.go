package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// OrderConfirmationSubject is the subject line of the order received email
const OrderConfirmationSubject = "Thank you for your order"

// NotificationClient sends notifications via notification-service API
type NotificationClient interface {
	// SendOrderConfirmation sends order confirmation email to customer
	SendOrderConfirmation(ctx context.Context, order *OrderNotification) error
}

// notificationClient implements NotificationClient
type notificationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNotificationClient creates a new notification client
func NewNotificationClient(baseURL string, timeout time.Duration) NotificationClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &notificationClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SendNotificationRequest represents the API request to notification-service
type SendNotificationRequest struct {
	Channel        string                 `json:"channel"`
	RecipientEmail string                 `json:"recipientEmail"`
	Subject        string                 `json:"subject"`
	TemplateName   string                 `json:"templateName,omitempty"`
	Variables      map[string]interface{} `json:"variables,omitempty"`
}

// OrderNotification contains order details for notification
type OrderNotification struct {
	OrderNumber     string
	OrderDate       string
	CustomerEmail   string
	CustomerName    string
	Phone           string
	OrderDetailsURL string
	Items           []OrderItem
	Subtotal        string
	Shipping        string
	Total           string
	ShippingAddress *Address
	PaymentMethod   string
	PaymentStatus   string
	BusinessName    string
}

// OrderItem represents an item in an order notification
type OrderItem struct {
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	Price      string   `json:"price"`
	LineTotal  string   `json:"lineTotal"`
	Variations []string `json:"variations,omitempty"`
}

// Address represents a shipping address
type Address struct {
	Name    string `json:"name"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// SendOrderConfirmation sends order confirmation email to customer
func (c *notificationClient) SendOrderConfirmation(ctx context.Context, order *OrderNotification) error {
	if order == nil {
		log.Printf("[NotificationClient] Skipping order confirmation - order is nil")
		return nil
	}
	if order.CustomerEmail == "" {
		log.Printf("[NotificationClient] Skipping order confirmation - no customer email for order %s", order.OrderNumber)
		return nil
	}

	req := c.buildNotificationRequest(order)
	req.Subject = OrderConfirmationSubject
	req.TemplateName = "order_received"

	if err := c.send(ctx, req); err != nil {
		log.Printf("[NotificationClient] Failed to send order confirmation: %v", err)
		return err
	}

	log.Printf("[NotificationClient] Order confirmation sent for order %s to %s", order.OrderNumber, order.CustomerEmail)
	return nil
}

func (c *notificationClient) buildNotificationRequest(order *OrderNotification) SendNotificationRequest {
	var shippingAddress map[string]interface{}
	if order.ShippingAddress != nil {
		shippingAddress = map[string]interface{}{
			"name":    order.ShippingAddress.Name,
			"line1":   order.ShippingAddress.Line1,
			"line2":   order.ShippingAddress.Line2,
			"city":    order.ShippingAddress.City,
			"state":   order.ShippingAddress.State,
			"country": order.ShippingAddress.Country,
		}
	}

	return SendNotificationRequest{
		Channel:        "EMAIL",
		RecipientEmail: order.CustomerEmail,
		Variables: map[string]interface{}{
			"orderNumber":     order.OrderNumber,
			"orderDate":       order.OrderDate,
			"customerName":    order.CustomerName,
			"phone":           order.Phone,
			"orderDetailsUrl": order.OrderDetailsURL,
			"items":           order.Items,
			"subtotal":        order.Subtotal,
			"shipping":        order.Shipping,
			"total":           order.Total,
			"shippingAddress": shippingAddress,
			"paymentMethod":   order.PaymentMethod,
			"paymentStatus":   order.PaymentStatus,
			"businessName":    order.BusinessName,
		},
	}
}

func (c *notificationClient) send(ctx context.Context, req SendNotificationRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/notifications/send", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Internal-Service", "familyplus-storefront")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification-service returned status %d", resp.StatusCode)
	}

	return nil
}
