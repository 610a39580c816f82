package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/navafv/familyplus/internal/middleware"
	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/services"
)

// MockOrderService is a mock implementation of services.OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID string, req services.CheckoutRequest, clientIP string) (*services.PlaceOrderResult, error) {
	args := m.Called(ctx, userID, req, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PlaceOrderResult), args.Error(1)
}

func (m *MockOrderService) RecordPayment(ctx context.Context, userID, orderNumber string) (*services.PaymentResult, error) {
	args := m.Called(ctx, userID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PaymentResult), args.Error(1)
}

func (m *MockOrderService) GetConfirmation(ctx context.Context, orderNumber string) (*services.ConfirmationResult, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ConfirmationResult), args.Error(1)
}

// MockReceiptGenerator is a mock implementation of ReceiptGenerator
type MockReceiptGenerator struct {
	mock.Mock
}

func (m *MockReceiptGenerator) GenerateReceipt(ctx context.Context, userID, orderNumber string) ([]byte, error) {
	args := m.Called(ctx, userID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockCatalogReader is a mock implementation of CatalogReader
type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) Home(ctx context.Context) (*services.HomePage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.HomePage), args.Error(1)
}

func (m *MockCatalogReader) ListProducts(ctx context.Context, categorySlug, rawPage string) (*services.ProductPage, error) {
	args := m.Called(ctx, categorySlug, rawPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ProductPage), args.Error(1)
}

func (m *MockCatalogReader) GetProductDetail(ctx context.Context, categorySlug, productSlug string, owner models.CartOwner) (*services.ProductDetail, error) {
	args := m.Called(ctx, categorySlug, productSlug, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ProductDetail), args.Error(1)
}

func (m *MockCatalogReader) Search(ctx context.Context, keyword string) (*services.SearchResult, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SearchResult), args.Error(1)
}

// MockCartManager is a mock implementation of CartManager
type MockCartManager struct {
	mock.Mock
}

func (m *MockCartManager) Add(ctx context.Context, owner models.CartOwner, req services.AddToCartRequest) (*models.CartItem, error) {
	args := m.Called(ctx, owner, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartManager) Decrement(ctx context.Context, owner models.CartOwner, itemID uint) (*models.CartItem, error) {
	args := m.Called(ctx, owner, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartManager) Remove(ctx context.Context, owner models.CartOwner, itemID uint) error {
	args := m.Called(ctx, owner, itemID)
	return args.Error(0)
}

func (m *MockCartManager) Summary(ctx context.Context, owner models.CartOwner) (*services.CartSummary, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CartSummary), args.Error(1)
}

// MockReviewSubmitter is a mock implementation of ReviewSubmitter
type MockReviewSubmitter struct {
	mock.Mock
}

func (m *MockReviewSubmitter) Submit(ctx context.Context, userID string, productID uint, req services.ReviewRequest, clientIP string) (*services.ReviewResult, error) {
	args := m.Called(ctx, userID, productID, req, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReviewResult), args.Error(1)
}

// MockContactManager is a mock implementation of ContactManager
type MockContactManager struct {
	mock.Mock
}

func (m *MockContactManager) SendMessage(ctx context.Context, req services.ContactRequest) (*models.ContactMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactMessage), args.Error(1)
}

func (m *MockContactManager) Subscribe(ctx context.Context, req services.NewsletterRequest) (*services.SubscribeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SubscribeResult), args.Error(1)
}

// Helper to setup test router with the identity middleware in place
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity())
	return r
}

// Helper to perform a request with optional JSON body and headers
func performRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func userHeaders(userID string) map[string]string {
	return map[string]string{middleware.HeaderUserID: userID}
}
