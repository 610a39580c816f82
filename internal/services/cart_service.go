package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/repository"
)

var (
	ErrCartOwnerRequired  = errors.New("cart owner is required")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrProductUnavailable = errors.New("product is not available")
)

// AddToCartRequest adds a product with the selected variations
type AddToCartRequest struct {
	ProductID    uint   `json:"product_id" binding:"required"`
	VariationIDs []uint `json:"variation_ids"`
	Quantity     int    `json:"quantity" binding:"omitempty,min=1"`
}

// CartSummary is the content of a cart with its totals
type CartSummary struct {
	Items      []models.CartItem `json:"items"`
	Total      int64             `json:"total"`
	Quantity   int               `json:"quantity"`
	Shipping   int64             `json:"shipping"`
	GrandTotal int64             `json:"grandTotal"`
}

// CartService manages cart lines
type CartService struct {
	carts       repository.CartRepositoryInterface
	catalog     repository.CatalogRepositoryInterface
	shippingFee int64
}

// NewCartService creates a cart service
func NewCartService(carts repository.CartRepositoryInterface, catalog repository.CatalogRepositoryInterface, shippingFee int64) *CartService {
	return &CartService{carts: carts, catalog: catalog, shippingFee: shippingFee}
}

// Add puts a product in the cart. A line holding the same product with
// the same variation set is incremented; anything else becomes a new line.
func (s *CartService) Add(ctx context.Context, owner models.CartOwner, req AddToCartRequest) (*models.CartItem, error) {
	if owner.IsZero() {
		return nil, ErrCartOwnerRequired
	}
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.catalog.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if !product.IsAvailable {
		return nil, ErrProductUnavailable
	}

	// Unknown or inactive variation ids are dropped
	variations, err := s.carts.GetVariations(ctx, product.ID, req.VariationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load variations: %w", err)
	}
	wanted := (&models.CartItem{Variations: variations}).VariationIDs()

	existing, err := s.carts.FindProductItems(ctx, owner, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	for i := range existing {
		item := &existing[i]
		if !slices.Equal(item.VariationIDs(), wanted) {
			continue
		}
		item.Quantity += quantity
		if err := s.carts.UpdateQuantity(ctx, item.ID, item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
		item.Product = product
		return item, nil
	}

	item := &models.CartItem{
		UserID:     owner.UserID,
		CartKey:    owner.CartKey,
		ProductID:  product.ID,
		Quantity:   quantity,
		IsActive:   true,
		Variations: variations,
	}
	if err := s.carts.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create cart item: %w", err)
	}
	item.Product = product
	return item, nil
}

// Decrement lowers a line's quantity by one and removes the line at zero.
// It returns nil once the line is gone.
func (s *CartService) Decrement(ctx context.Context, owner models.CartOwner, itemID uint) (*models.CartItem, error) {
	item, err := s.getItem(ctx, owner, itemID)
	if err != nil {
		return nil, err
	}

	if item.Quantity > 1 {
		item.Quantity--
		if err := s.carts.UpdateQuantity(ctx, item.ID, item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
		return item, nil
	}

	if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil, nil
}

// Remove deletes a cart line
func (s *CartService) Remove(ctx context.Context, owner models.CartOwner, itemID uint) error {
	item, err := s.getItem(ctx, owner, itemID)
	if err != nil {
		return err
	}
	if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// Summary lists the cart with totals. Shipping only applies to a non-empty cart.
func (s *CartService) Summary(ctx context.Context, owner models.CartOwner) (*CartSummary, error) {
	summary := &CartSummary{Items: []models.CartItem{}}
	if owner.IsZero() {
		return summary, nil
	}

	items, err := s.carts.ListItems(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	if len(items) == 0 {
		return summary, nil
	}

	summary.Items = items
	summary.Total, summary.Quantity = CartTotals(items)
	summary.Shipping = s.shippingFee
	summary.GrandTotal = summary.Total + summary.Shipping
	return summary, nil
}

func (s *CartService) getItem(ctx context.Context, owner models.CartOwner, itemID uint) (*models.CartItem, error) {
	if owner.IsZero() {
		return nil, ErrCartOwnerRequired
	}
	item, err := s.carts.GetItem(ctx, owner, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return item, nil
}
