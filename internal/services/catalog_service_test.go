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

func newTestCatalogService() (*CatalogService, *MockCatalogRepository, *MockCartRepository, *MockOrderRepository) {
	catalog := new(MockCatalogRepository)
	carts := new(MockCartRepository)
	orders := new(MockOrderRepository)
	service := NewCatalogService(catalog, carts, orders, CatalogSettings{
		PageSize:          15,
		PageWindow:        2,
		HomeProductLimit:  12,
		HomeCategoryLimit: 4,
	})
	return service, catalog, carts, orders
}

// ===========================================
// Pagination Tests
// ===========================================

func TestSmartPageRange(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"single page", 1, 1, []int{1}},
		{"few pages", 2, 3, []int{1, 2, 3}},
		{"start of many", 1, 10, []int{1, 2, 3, PageEllipsis, 10}},
		{"middle of many", 10, 20, []int{1, PageEllipsis, 8, 9, 10, 11, 12, PageEllipsis, 20}},
		{"window touches first", 4, 10, []int{1, 2, 3, 4, 5, 6, PageEllipsis, 10}},
		{"end of many", 20, 20, []int{1, PageEllipsis, 18, 19, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SmartPageRange(tt.current, tt.total, 2))
		})
	}
}

func TestResolvePage(t *testing.T) {
	assert.Equal(t, 1, ResolvePage("", 5))
	assert.Equal(t, 1, ResolvePage("abc", 5))
	assert.Equal(t, 3, ResolvePage("3", 5))
	assert.Equal(t, 5, ResolvePage("99", 5))
	assert.Equal(t, 5, ResolvePage("0", 5))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 15))
	assert.Equal(t, 1, TotalPages(15, 15))
	assert.Equal(t, 2, TotalPages(16, 15))
	assert.Equal(t, 13, TotalPages(194, 15))
}

// ===========================================
// Catalog Service Tests
// ===========================================

func TestHome(t *testing.T) {
	ctx := context.Background()
	service, catalog, _, _ := newTestCatalogService()

	catalog.On("ListNewestProducts", ctx, 12).Return([]models.Product{{ID: 2}, {ID: 1}}, nil)
	catalog.On("ListCategories", ctx, 4).Return([]models.Category{{ID: 1, Name: "Beauty"}}, nil)

	home, err := service.Home(ctx)

	require.NoError(t, err)
	assert.Len(t, home.Products, 2)
	assert.Len(t, home.Categories, 1)
	catalog.AssertExpectations(t)
}

func TestListProducts_Category(t *testing.T) {
	ctx := context.Background()
	service, catalog, _, _ := newTestCatalogService()
	category := &models.Category{ID: 3, Name: "Home Decoration", Slug: "home-decoration"}

	catalog.On("GetCategoryBySlug", ctx, "home-decoration").Return(category, nil)
	catalog.On("ListAvailableProducts", ctx, mock.MatchedBy(func(id *uint) bool { return id != nil && *id == 3 }), 15, 15).
		Return([]models.Product{{ID: 16}}, int64(40), nil)

	page, err := service.ListProducts(ctx, "home-decoration", "2")

	require.NoError(t, err)
	assert.Equal(t, category, page.Category)
	assert.Equal(t, int64(40), page.ProductCount)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasPrevious)
	assert.True(t, page.Pagination.HasNext)
	assert.Equal(t, []int{1, 2, 3}, page.Pagination.PageRange)
	catalog.AssertExpectations(t)
}

func TestListProducts_OutOfRangeGivesLastPage(t *testing.T) {
	ctx := context.Background()
	service, catalog, _, _ := newTestCatalogService()

	catalog.On("ListAvailableProducts", ctx, (*uint)(nil), 15, 150).Return([]models.Product{}, int64(20), nil).Once()
	catalog.On("ListAvailableProducts", ctx, (*uint)(nil), 15, 15).Return([]models.Product{{ID: 16}, {ID: 17}}, int64(20), nil).Once()

	page, err := service.ListProducts(ctx, "", "11")

	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Len(t, page.Products, 2)
	catalog.AssertExpectations(t)
}

func TestListProducts_InvalidPageGivesFirst(t *testing.T) {
	ctx := context.Background()
	service, catalog, _, _ := newTestCatalogService()

	catalog.On("ListAvailableProducts", ctx, (*uint)(nil), 15, 0).Return([]models.Product{{ID: 1}}, int64(1), nil).Once()

	page, err := service.ListProducts(ctx, "", "first")

	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	catalog.AssertExpectations(t)
}

func TestListProducts_UnknownCategory(t *testing.T) {
	ctx := context.Background()
	service, catalog, _, _ := newTestCatalogService()

	catalog.On("GetCategoryBySlug", ctx, "nope").Return(nil, repository.ErrNotFound)

	_, err := service.ListProducts(ctx, "nope", "")

	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestGetProductDetail_SignedInUser(t *testing.T) {
	ctx := context.Background()
	service, catalog, carts, orders := newTestCatalogService()
	owner := models.CartOwner{UserID: "user-1"}
	product := &models.Product{ID: 7, Name: "Lipstick", Slug: "lipstick"}

	catalog.On("GetProductBySlugs", ctx, "beauty", "lipstick").Return(product, nil)
	carts.On("HasProduct", ctx, owner, uint(7)).Return(true, nil)
	orders.On("HasOrderedProduct", ctx, "user-1", uint(7)).Return(true, nil)
	catalog.On("ListApprovedReviews", ctx, uint(7)).Return([]models.ReviewRating{{Rating: 4}, {Rating: 4.5}, {Rating: 3}}, nil)
	catalog.On("ListGallery", ctx, uint(7)).Return([]models.ProductGallery{{Image: "store/products/lipstick-2.jpg"}}, nil)

	detail, err := service.GetProductDetail(ctx, "beauty", "lipstick", owner)

	require.NoError(t, err)
	assert.True(t, detail.InCart)
	assert.True(t, detail.Ordered)
	assert.Equal(t, 3, detail.ReviewCount)
	assert.Equal(t, 3.83, detail.AverageRating)
	assert.Len(t, detail.Gallery, 1)
	catalog.AssertExpectations(t)
	carts.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestGetProductDetail_GuestSkipsOrderedCheck(t *testing.T) {
	ctx := context.Background()
	service, catalog, carts, orders := newTestCatalogService()
	owner := models.CartOwner{CartKey: "cart-abc"}

	catalog.On("GetProductBySlugs", ctx, "beauty", "lipstick").Return(&models.Product{ID: 7}, nil)
	carts.On("HasProduct", ctx, owner, uint(7)).Return(false, nil)
	catalog.On("ListApprovedReviews", ctx, uint(7)).Return([]models.ReviewRating{}, nil)
	catalog.On("ListGallery", ctx, uint(7)).Return([]models.ProductGallery{}, nil)

	detail, err := service.GetProductDetail(ctx, "beauty", "lipstick", owner)

	require.NoError(t, err)
	assert.False(t, detail.Ordered)
	assert.Equal(t, float64(0), detail.AverageRating)
	orders.AssertNotCalled(t, "HasOrderedProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetProductDetail_NotFound(t *testing.T) {
	ctx := context.Background()
	service, catalog, _, _ := newTestCatalogService()

	catalog.On("GetProductBySlugs", ctx, "beauty", "missing").Return(nil, repository.ErrNotFound)

	_, err := service.GetProductDetail(ctx, "beauty", "missing", models.CartOwner{})

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	service, catalog, _, _ := newTestCatalogService()

	catalog.On("SearchProducts", ctx, "mascara").Return([]models.Product{{ID: 3}, {ID: 1}}, nil)

	result, err := service.Search(ctx, "  mascara ")

	require.NoError(t, err)
	assert.Equal(t, "mascara", result.Keyword)
	assert.Equal(t, 2, result.ProductCount)
}

func TestSearch_EmptyKeyword(t *testing.T) {
	service, catalog, _, _ := newTestCatalogService()

	result, err := service.Search(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, result.Products)
	catalog.AssertNotCalled(t, "SearchProducts", mock.Anything, mock.Anything)
}
