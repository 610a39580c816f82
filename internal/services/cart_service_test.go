package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/repository"
)

func newTestCartService() (*CartService, *MockCartRepository, *MockCatalogRepository) {
	carts := new(MockCartRepository)
	catalog := new(MockCatalogRepository)
	return NewCartService(carts, catalog, 40), carts, catalog
}

var (
	red   = models.Variation{ID: 3, ProductID: 1, Category: models.VariationColor, Value: "red"}
	large = models.Variation{ID: 5, ProductID: 1, Category: models.VariationSize, Value: "large"}
)

func TestCartAdd_SameVariationsIncrements(t *testing.T) {
	ctx := context.Background()
	service, carts, catalog := newTestCartService()
	owner := models.CartOwner{CartKey: "cart-abc"}

	catalog.On("GetProductByID", ctx, uint(1)).Return(&models.Product{ID: 1, Price: 100, IsAvailable: true}, nil)
	carts.On("GetVariations", ctx, uint(1), []uint{5, 3}).Return([]models.Variation{red, large}, nil)
	carts.On("FindProductItems", ctx, owner, uint(1)).Return([]models.CartItem{
		{ID: 10, ProductID: 1, Quantity: 1, Variations: []models.Variation{red}},
		{ID: 11, ProductID: 1, Quantity: 2, Variations: []models.Variation{large, red}},
	}, nil)
	carts.On("UpdateQuantity", ctx, uint(11), 3).Return(nil)

	item, err := service.Add(ctx, owner, AddToCartRequest{ProductID: 1, VariationIDs: []uint{5, 3}})

	require.NoError(t, err)
	assert.Equal(t, uint(11), item.ID)
	assert.Equal(t, 3, item.Quantity)
	carts.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
	carts.AssertExpectations(t)
}

func TestCartAdd_NewVariationSetCreatesLine(t *testing.T) {
	ctx := context.Background()
	service, carts, catalog := newTestCartService()
	owner := models.CartOwner{UserID: "user-1"}

	catalog.On("GetProductByID", ctx, uint(1)).Return(&models.Product{ID: 1, Price: 100, IsAvailable: true}, nil)
	carts.On("GetVariations", ctx, uint(1), []uint{5}).Return([]models.Variation{large}, nil)
	carts.On("FindProductItems", ctx, owner, uint(1)).Return([]models.CartItem{
		{ID: 10, ProductID: 1, Quantity: 1, Variations: []models.Variation{red}},
	}, nil)
	carts.On("CreateItem", ctx, mock.MatchedBy(func(item *models.CartItem) bool {
		return item.UserID == "user-1" && item.Quantity == 2 && len(item.Variations) == 1
	})).Return(nil)

	item, err := service.Add(ctx, owner, AddToCartRequest{ProductID: 1, VariationIDs: []uint{5}, Quantity: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(200), item.SubTotal())
	carts.AssertExpectations(t)
}

func TestCartAdd_UnavailableProduct(t *testing.T) {
	ctx := context.Background()
	service, _, catalog := newTestCartService()

	catalog.On("GetProductByID", ctx, uint(1)).Return(&models.Product{ID: 1, IsAvailable: false}, nil)

	_, err := service.Add(ctx, models.CartOwner{CartKey: "k"}, AddToCartRequest{ProductID: 1})

	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCartAdd_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	service, _, catalog := newTestCartService()

	catalog.On("GetProductByID", ctx, uint(9)).Return(nil, repository.ErrNotFound)

	_, err := service.Add(ctx, models.CartOwner{CartKey: "k"}, AddToCartRequest{ProductID: 9})

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartAdd_RequiresOwner(t *testing.T) {
	service, _, _ := newTestCartService()

	_, err := service.Add(context.Background(), models.CartOwner{}, AddToCartRequest{ProductID: 1})

	assert.ErrorIs(t, err, ErrCartOwnerRequired)
}

func TestCartDecrement(t *testing.T) {
	ctx := context.Background()
	owner := models.CartOwner{CartKey: "cart-abc"}

	t.Run("lowers quantity", func(t *testing.T) {
		service, carts, _ := newTestCartService()
		carts.On("GetItem", ctx, owner, uint(10)).Return(&models.CartItem{ID: 10, Quantity: 3}, nil)
		carts.On("UpdateQuantity", ctx, uint(10), 2).Return(nil)

		item, err := service.Decrement(ctx, owner, 10)

		require.NoError(t, err)
		assert.Equal(t, 2, item.Quantity)
		carts.AssertExpectations(t)
	})

	t.Run("removes last unit", func(t *testing.T) {
		service, carts, _ := newTestCartService()
		carts.On("GetItem", ctx, owner, uint(10)).Return(&models.CartItem{ID: 10, Quantity: 1}, nil)
		carts.On("DeleteItem", ctx, uint(10)).Return(nil)

		item, err := service.Decrement(ctx, owner, 10)

		require.NoError(t, err)
		assert.Nil(t, item)
		carts.AssertExpectations(t)
	})

	t.Run("someone else's item", func(t *testing.T) {
		service, carts, _ := newTestCartService()
		carts.On("GetItem", ctx, owner, uint(99)).Return(nil, repository.ErrNotFound)

		_, err := service.Decrement(ctx, owner, 99)

		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})
}

func TestCartRemove(t *testing.T) {
	ctx := context.Background()
	service, carts, _ := newTestCartService()
	owner := models.CartOwner{UserID: "user-1"}

	carts.On("GetItem", ctx, owner, uint(10)).Return(&models.CartItem{ID: 10, Quantity: 4}, nil)
	carts.On("DeleteItem", ctx, uint(10)).Return(nil)

	require.NoError(t, service.Remove(ctx, owner, 10))
	carts.AssertExpectations(t)
}

func TestCartSummary(t *testing.T) {
	ctx := context.Background()
	service, carts, _ := newTestCartService()
	owner := models.CartOwner{UserID: "user-1"}

	carts.On("ListItems", ctx, owner).Return(testCart("user-1"), nil)

	summary, err := service.Summary(ctx, owner)

	require.NoError(t, err)
	assert.Equal(t, int64(250), summary.Total)
	assert.Equal(t, 3, summary.Quantity)
	assert.Equal(t, int64(40), summary.Shipping)
	assert.Equal(t, int64(290), summary.GrandTotal)
}

func TestCartSummary_EmptyHasNoShipping(t *testing.T) {
	ctx := context.Background()
	service, carts, _ := newTestCartService()
	owner := models.CartOwner{CartKey: "cart-abc"}

	carts.On("ListItems", ctx, owner).Return([]models.CartItem{}, nil)

	summary, err := service.Summary(ctx, owner)

	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.Equal(t, int64(0), summary.GrandTotal)
}
