// Package events publishes storefront order events to NATS JetStream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"

	"github.com/navafv/familyplus/internal/models"
)

const (
	// StreamOrders is the JetStream stream carrying order events
	StreamOrders = "ORDERS"

	OrderPlaced = "order.placed"
	OrderPaid   = "order.paid"

	publishTimeout = 10 * time.Second
	// DefaultDrainTimeout bounds how long Close waits for events still being published
	DefaultDrainTimeout = 15 * time.Second
)

// OrderEvent is the payload published for order lifecycle changes
type OrderEvent struct {
	EventID       string      `json:"eventId"`
	EventType     string      `json:"eventType"`
	Timestamp     time.Time   `json:"timestamp"`
	OrderID       uint        `json:"orderId"`
	OrderNumber   string      `json:"orderNumber"`
	UserID        string      `json:"userId"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	OrderTotal    int64       `json:"orderTotal"`
	Shipping      int64       `json:"shipping"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	PaymentStatus string      `json:"paymentStatus,omitempty"`
	Items         []OrderItem `json:"items,omitempty"`
	ItemCount     int         `json:"itemCount"`
}

// OrderItem is one purchased line in an order event
type OrderItem struct {
	ProductID  uint     `json:"productId"`
	Quantity   int      `json:"quantity"`
	UnitPrice  int64    `json:"unitPrice"`
	TotalPrice int64    `json:"totalPrice"`
	Variations []string `json:"variations,omitempty"`
}

// streamPublisher is the part of jetstream.JetStream the publisher needs
type streamPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher publishes order events
type Publisher struct {
	conn   *nats.Conn
	js     streamPublisher
	logger *logrus.Entry

	inflight     sync.WaitGroup
	drainTimeout time.Duration
}

// NewPublisher connects to NATS and ensures the orders stream exists
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	entry := logger.WithField("component", "order-events")

	nc, err := nats.Connect(natsURL,
		nats.Name("familyplus-storefront"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			entry.Infof("Reconnected to %s", nc.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			entry.WithError(err).Warn("Disconnected from NATS")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamOrders,
		Subjects:  []string{"order.>"},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   jetstream.FileStorage,
		Replicas:  1,
	})
	if err != nil {
		entry.WithError(err).Warn("Failed to ensure orders stream (may already exist)")
	}

	return &Publisher{conn: nc, js: js, logger: entry, drainTimeout: DefaultDrainTimeout}, nil
}

// Close waits for in-flight events, up to the drain timeout, then closes
// the NATS connection
func (p *Publisher) Close() {
	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(p.drainTimeout):
		p.logger.Warn("Timed out waiting for order events to publish")
	}

	if p.conn != nil {
		p.conn.Close()
	}
}

// PublishOrderPlaced publishes an order.placed event for a pending order
func (p *Publisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, buildOrderEvent(OrderPlaced, order, nil))
}

// PublishOrderPaid publishes an order.paid event with the purchased lines
func (p *Publisher) PublishOrderPaid(ctx context.Context, order *models.Order, items []models.OrderProduct) error {
	return p.publish(ctx, buildOrderEvent(OrderPaid, order, items))
}

func buildOrderEvent(eventType string, order *models.Order, items []models.OrderProduct) *OrderEvent {
	event := &OrderEvent{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Timestamp:     time.Now().UTC(),
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		CustomerName:  order.FullName(),
		CustomerEmail: order.Email,
		OrderTotal:    order.OrderTotal,
		Shipping:      order.Shipping,
	}

	if order.Payment != nil {
		event.PaymentMethod = order.Payment.PaymentMethod
		event.PaymentStatus = order.Payment.Status
	}

	event.Items = make([]OrderItem, len(items))
	for i, item := range items {
		event.Items[i] = OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.ProductPrice,
			TotalPrice: item.LineTotal(),
			Variations: item.VariationLabels,
		}
	}
	event.ItemCount = len(items)

	return event
}

// publish sends the event in the background so the request path never waits on NATS
func (p *Publisher) publish(ctx context.Context, event *OrderEvent) error {
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		_ = p.publishSync(pubCtx, event)
	}()
	return nil
}

func (p *Publisher) publishSync(ctx context.Context, event *OrderEvent) error {
	fields := logrus.Fields{
		"eventType":   event.EventType,
		"orderNumber": event.OrderNumber,
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithFields(fields).WithError(err).Error("Failed to encode order event")
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	if _, err := p.js.Publish(ctx, event.EventType, data, jetstream.WithMsgID(event.EventID)); err != nil {
		p.logger.WithFields(fields).WithError(err).Error("Failed to publish order event")
		return fmt.Errorf("failed to publish %s: %w", event.EventType, err)
	}

	p.logger.WithFields(fields).Info("Order event published successfully")
	return nil
}
