package services

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/navafv/familyplus/internal/clients"
	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/repository"
)

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// ===========================================
// Order Repository Mock
// ===========================================

// MockOrderRepository is a mock implementation of OrderRepositoryInterface
type MockOrderRepository struct {
	mock.Mock
}

var _ repository.OrderRepositoryInterface = (*MockOrderRepository)(nil)

func (m *MockOrderRepository) ListCartItemsByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockOrderRepository) LockCartItemsByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SetOrderNumber(ctx context.Context, orderID uint, orderNumber string) error {
	args := m.Called(ctx, orderID, orderNumber)
	return args.Error(0)
}

func (m *MockOrderRepository) GetPendingOrder(ctx context.Context, userID, orderNumber string) (*models.Order, error) {
	args := m.Called(ctx, userID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) LockPendingOrder(ctx context.Context, userID, orderNumber string) (*models.Order, error) {
	args := m.Called(ctx, userID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkOrdered(ctx context.Context, order *models.Order, paymentID uint) error {
	args := m.Called(ctx, order, paymentID)
	if args.Error(0) == nil {
		order.PaymentID = &paymentID
		order.IsOrdered = true
	}
	return args.Error(0)
}

func (m *MockOrderRepository) LockProduct(ctx context.Context, productID uint) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockOrderRepository) DecrementStock(ctx context.Context, productID uint, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderProduct(ctx context.Context, item *models.OrderProduct) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderRepository) ClearCart(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) HasOrderedProduct(ctx context.Context, userID string, productID uint) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

// WithTransaction executes the callback with the mock itself
func (m *MockOrderRepository) WithTransaction(ctx context.Context, fn func(txRepo repository.OrderRepositoryInterface) error) error {
	return fn(m)
}

// ===========================================
// Catalog Repository Mock
// ===========================================

// MockCatalogRepository is a mock implementation of CatalogRepositoryInterface
type MockCatalogRepository struct {
	mock.Mock
}

var _ repository.CatalogRepositoryInterface = (*MockCatalogRepository)(nil)

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
		return nil, args.Bool(1), args.Error(2)
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

// ===========================================
// Cart Repository Mock
// ===========================================

// MockCartRepository is a mock implementation of CartRepositoryInterface
type MockCartRepository struct {
	mock.Mock
}

var _ repository.CartRepositoryInterface = (*MockCartRepository)(nil)

func (m *MockCartRepository) ListItems(ctx context.Context, owner models.CartOwner) ([]models.CartItem, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindProductItems(ctx context.Context, owner models.CartOwner, productID uint) ([]models.CartItem, error) {
	args := m.Called(ctx, owner, productID)
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockCartRepository) GetItem(ctx context.Context, owner models.CartOwner, itemID uint) (*models.CartItem, error) {
	args := m.Called(ctx, owner, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartRepository) CreateItem(ctx context.Context, item *models.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateQuantity(ctx context.Context, itemID uint, quantity int) error {
	args := m.Called(ctx, itemID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) HasProduct(ctx context.Context, owner models.CartOwner, productID uint) (bool, error) {
	args := m.Called(ctx, owner, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) GetVariations(ctx context.Context, productID uint, ids []uint) ([]models.Variation, error) {
	args := m.Called(ctx, productID, ids)
	return args.Get(0).([]models.Variation), args.Error(1)
}

// ===========================================
// Contact Repository Mock
// ===========================================

// MockContactRepository is a mock implementation of ContactRepositoryInterface
type MockContactRepository struct {
	mock.Mock
}

var _ repository.ContactRepositoryInterface = (*MockContactRepository)(nil)

func (m *MockContactRepository) CreateContactMessage(ctx context.Context, message *models.ContactMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockContactRepository) GetSubscriberByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NewsletterSubscriber), args.Error(1)
}

func (m *MockContactRepository) CreateSubscriber(ctx context.Context, subscriber *models.NewsletterSubscriber) (bool, error) {
	args := m.Called(ctx, subscriber)
	return args.Bool(0), args.Error(1)
}

// ===========================================
// Collaborator Mocks
// ===========================================

// MockNotificationClient is a mock implementation of clients.NotificationClient
type MockNotificationClient struct {
	mock.Mock
}

var _ clients.NotificationClient = (*MockNotificationClient)(nil)

func (m *MockNotificationClient) SendOrderConfirmation(ctx context.Context, order *clients.OrderNotification) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of OrderEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

var _ OrderEventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishOrderPaid(ctx context.Context, order *models.Order, items []models.OrderProduct) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}
