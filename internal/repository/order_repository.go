package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/navafv/familyplus/internal/models"
)

// Cache TTL constants for orders
const (
	OrderNumberCacheTTL = 10 * time.Minute // Paid order lookups by number
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OrderRepositoryInterface defines the data operations of the checkout workflow
type OrderRepositoryInterface interface {
	ListCartItemsByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	LockCartItemsByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	SetOrderNumber(ctx context.Context, orderID uint, orderNumber string) error
	GetPendingOrder(ctx context.Context, userID, orderNumber string) (*models.Order, error)
	LockPendingOrder(ctx context.Context, userID, orderNumber string) (*models.Order, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	MarkOrdered(ctx context.Context, order *models.Order, paymentID uint) error
	LockProduct(ctx context.Context, productID uint) (*models.Product, error)
	DecrementStock(ctx context.Context, productID uint, quantity int) error
	CreateOrderProduct(ctx context.Context, item *models.OrderProduct) error
	ClearCart(ctx context.Context, userID string) (int64, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	HasOrderedProduct(ctx context.Context, userID string, productID uint) (bool, error)
	WithTransaction(ctx context.Context, fn func(txRepo OrderRepositoryInterface) error) error
}

// OrderRepository handles database operations for orders, payments and fulfillment
type OrderRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewOrderRepository creates a new order repository with optional Redis caching
func NewOrderRepository(db *gorm.DB, redisClient *redis.Client) *OrderRepository {
	return &OrderRepository{
		db:    db,
		redis: redisClient,
	}
}

// generateOrderNumberCacheKey creates a cache key for order lookups by number
func generateOrderNumberCacheKey(orderNumber string) string {
	return fmt.Sprintf("familyplus:orders:number:%s", orderNumber)
}

// invalidateOrderCache drops the cached copy of an order
func (r *OrderRepository) invalidateOrderCache(ctx context.Context, orderNumber string) {
	if r.redis == nil || orderNumber == "" {
		return
	}
	r.redis.Del(ctx, generateOrderNumberCacheKey(orderNumber))
}

// RedisHealth returns the health status of Redis connection
func (r *OrderRepository) RedisHealth(ctx context.Context) error {
	if r.redis == nil {
		return fmt.Errorf("redis not configured")
	}
	return r.redis.Ping(ctx).Err()
}

// WithTransaction runs fn with a repository bound to a single database transaction
func (r *OrderRepository) WithTransaction(ctx context.Context, fn func(txRepo OrderRepositoryInterface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrderRepository{db: tx, redis: r.redis})
	})
}

// ListCartItemsByUser returns the user's active cart items with products and variations
func (r *OrderRepository) ListCartItemsByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Variations").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("product_id ASC, id ASC").
		Find(&items).Error
	return items, err
}

// LockCartItemsByUser is ListCartItemsByUser with the cart rows locked until
// the transaction ends. A concurrent payment on the same cart waits here and
// then sees the rows it would have consumed already gone.
func (r *OrderRepository) LockCartItemsByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Product").
		Preload("Variations").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("product_id ASC, id ASC").
		Find(&items).Error
	return items, err
}

// CreateOrder inserts a new pending order
func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// SetOrderNumber stores the generated order number on an existing order
func (r *OrderRepository) SetOrderNumber(ctx context.Context, orderID uint, orderNumber string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("order_number", orderNumber)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPendingOrder retrieves an unpaid order of the user by its number
func (r *OrderRepository) GetPendingOrder(ctx context.Context, userID, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_ordered = ? AND order_number = ?", userID, false, orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// LockPendingOrder is GetPendingOrder with a row lock held until the transaction ends
func (r *OrderRepository) LockPendingOrder(ctx context.Context, userID, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND is_ordered = ? AND order_number = ?", userID, false, orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// CreatePayment inserts a payment record
func (r *OrderRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// MarkOrdered links the payment and flips the order to ordered.
// Only a pending order is updated, so the transition happens once.
func (r *OrderRepository) MarkOrdered(ctx context.Context, order *models.Order, paymentID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND is_ordered = ?", order.ID, false).
		Updates(map[string]interface{}{
			"payment_id": paymentID,
			"is_ordered": true,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	order.PaymentID = &paymentID
	order.IsOrdered = true
	r.invalidateOrderCache(ctx, order.OrderNumber)
	return nil
}

// LockProduct reads a product with a row lock held until the transaction ends
func (r *OrderRepository) LockProduct(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// DecrementStock subtracts quantity from a product's stock.
// The update only applies while enough stock remains.
func (r *OrderRepository) DecrementStock(ctx context.Context, productID uint, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// CreateOrderProduct inserts a purchased line item and its variation links
func (r *OrderRepository) CreateOrderProduct(ctx context.Context, item *models.OrderProduct) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

// ClearCart deletes every cart item of the user and returns how many were removed
func (r *OrderRepository) ClearCart(ctx context.Context, userID string) (int64, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := r.db.WithContext(ctx).Exec("DELETE FROM cart_item_variations WHERE cart_item_id IN ?", ids).Error; err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// GetOrderByNumber retrieves an order with its line items. Paid orders are
// served from Redis when available since they no longer change.
func (r *OrderRepository) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	cacheKey := generateOrderNumberCacheKey(orderNumber)

	// Try to get from cache first
	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var order models.Order
			if err := json.Unmarshal([]byte(val), &order); err == nil {
				return &order, nil
			}
		}
	}

	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Payment").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Preload("Items.Variations").
		Where("order_number = ?", orderNumber).
		Order("id DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Cache the result
	if r.redis != nil && order.IsOrdered {
		data, err := json.Marshal(order)
		if err == nil {
			r.redis.Set(ctx, cacheKey, data, OrderNumberCacheTTL)
		}
	}

	return &order, nil
}

// HasOrderedProduct reports whether the user has bought the product before
func (r *OrderRepository) HasOrderedProduct(ctx context.Context, userID string, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderProduct{}).
		Where("user_id = ? AND product_id = ? AND ordered = ?", userID, productID, true).
		Count(&count).Error
	return count > 0, err
}
