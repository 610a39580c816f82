package jobs

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/navafv/familyplus/internal/clients"
	"github.com/navafv/familyplus/internal/models"
)

// MockCatalogClient is a mock implementation of clients.CatalogClient
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) FetchProducts(ctx context.Context) ([]clients.ExternalProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.ExternalProduct), args.Error(1)
}

// MockImageFetcher is a mock implementation of ImageFetcher
type MockImageFetcher struct {
	mock.Mock
}

func (m *MockImageFetcher) Fetch(ctx context.Context, imageURL, dir, prefix string) (string, error) {
	args := m.Called(ctx, imageURL, dir, prefix)
	return args.String(0), args.Error(1)
}

// MockCatalogRepository is a mock implementation of repository.CatalogRepositoryInterface
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context, limit int) ([]models.Category, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCatalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogRepository) ListAvailableProducts(ctx context.Context, categoryID *uint, limit, offset int) ([]models.Product, int64, error) {
	args := m.Called(ctx, categoryID, limit, offset)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) ListNewestProducts(ctx context.Context, limit int) ([]models.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockCatalogRepository) SearchProducts(ctx context.Context, keyword string) ([]models.Product, error) {
	args := m.Called(ctx, keyword)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetProductBySlugs(ctx context.Context, categorySlug, productSlug string) (*models.Product, error) {
	args := m.Called(ctx, categorySlug, productSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogRepository) ListGallery(ctx context.Context, productID uint) ([]models.ProductGallery, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]models.ProductGallery), args.Error(1)
}

func (m *MockCatalogRepository) ListApprovedReviews(ctx context.Context, productID uint) ([]models.ReviewRating, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]models.ReviewRating), args.Error(1)
}

func (m *MockCatalogRepository) GetReview(ctx context.Context, userID string, productID uint) (*models.ReviewRating, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewRating), args.Error(1)
}

func (m *MockCatalogRepository) SaveReview(ctx context.Context, review *models.ReviewRating) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockCatalogRepository) ProductNameExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) GetOrCreateCategoryByName(ctx context.Context, name, slug, description string) (*models.Category, bool, error) {
	args := m.Called(ctx, name, slug, description)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Category), args.Bool(1), args.Error(2)
}

func (m *MockCatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCatalogRepository) UpdateCategoryImage(ctx context.Context, categoryID uint, image string) error {
	args := m.Called(ctx, categoryID, image)
	return args.Error(0)
}

func (m *MockCatalogRepository) AddGalleryImage(ctx context.Context, gallery *models.ProductGallery) error {
	args := m.Called(ctx, gallery)
	return args.Error(0)
}

func (m *MockCatalogRepository) CreateImportRun(ctx context.Context, run *models.ImportRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}
