package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/navafv/familyplus/internal/models"
)

// CartRepositoryInterface defines cart data operations
type CartRepositoryInterface interface {
	ListItems(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error)
	FindProductItems(ctx context.Context, owner models.CartOwner, productID uint) ([]models.CartItem, error)
	GetItem(ctx context.Context, owner models.CartOwner, itemID uint) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, itemID uint, quantity int) error
	DeleteItem(ctx context.Context, itemID uint) error
	HasProduct(ctx context.Context, owner models.CartOwner, productID uint) (bool, error)
	GetVariations(ctx context.Context, productID uint, ids []uint) ([]models.Variation, error)
}

// CartRepository handles database operations for carts
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// scopeOwner restricts a query to the user's items, or to the guest cart when no user is known
func scopeOwner(owner models.CartOwner) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if owner.UserID != "" {
			return db.Where("cart_items.user_id = ?", owner.UserID)
		}
		return db.Where("cart_items.cart_key = ? AND (cart_items.user_id = '' OR cart_items.user_id IS NULL)", owner.CartKey)
	}
}

// ListItems returns the active items of a cart
func (r *CartRepository) ListItems(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Scopes(scopeOwner(owner)).
		Preload("Product.Category").
		Preload("Variations").
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// FindProductItems returns the cart lines holding a product
func (r *CartRepository) FindProductItems(ctx context.Context, owner models.CartOwner, productID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Scopes(scopeOwner(owner)).
		Preload("Variations").
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// GetItem retrieves a cart line that belongs to the owner
func (r *CartRepository) GetItem(ctx context.Context, owner models.CartOwner, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Scopes(scopeOwner(owner)).
		Preload("Product").
		Where("id = ?", itemID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a cart line together with its variation links
func (r *CartRepository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Create(item).Error
}

// UpdateQuantity sets the quantity of a cart line
func (r *CartRepository) UpdateQuantity(ctx context.Context, itemID uint, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// DeleteItem removes a cart line and its variation links
func (r *CartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM cart_item_variations WHERE cart_item_id = ?", itemID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CartItem{}, itemID).Error
	})
}

// HasProduct reports whether the product is already in the cart
func (r *CartRepository) HasProduct(ctx context.Context, owner models.CartOwner, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Scopes(scopeOwner(owner)).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count > 0, err
}

// GetVariations loads the active variations of a product among the given ids
func (r *CartRepository) GetVariations(ctx context.Context, productID uint, ids []uint) ([]models.Variation, error) {
	var variations []models.Variation
	if len(ids) == 0 {
		return variations, nil
	}
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_active = ? AND id IN ?", productID, true, ids).
		Order("id ASC").
		Find(&variations).Error
	return variations, err
}
