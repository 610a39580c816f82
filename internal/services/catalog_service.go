package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/repository"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// CatalogSettings controls listing sizes
type CatalogSettings struct {
	PageSize          int
	PageWindow        int
	HomeProductLimit  int
	HomeCategoryLimit int
}

// HomePage is the storefront landing content
type HomePage struct {
	Products   []models.Product  `json:"products"`
	Categories []models.Category `json:"categories"`
}

// ProductPage is one page of the store listing
type ProductPage struct {
	Products     []models.Product `json:"products"`
	ProductCount int64            `json:"productCount"`
	Category     *models.Category `json:"category,omitempty"`
	Pagination   Pagination       `json:"pagination"`
}

// ProductDetail is a product with everything its page shows
type ProductDetail struct {
	Product       *models.Product         `json:"product"`
	InCart        bool                    `json:"inCart"`
	Ordered       bool                    `json:"ordered"`
	Reviews       []models.ReviewRating   `json:"reviews"`
	ReviewCount   int                     `json:"reviewCount"`
	AverageRating float64                 `json:"averageRating"`
	Gallery       []models.ProductGallery `json:"gallery"`
}

// SearchResult lists the products matching a keyword
type SearchResult struct {
	Keyword      string           `json:"keyword"`
	Products     []models.Product `json:"products"`
	ProductCount int              `json:"productCount"`
}

// CatalogService serves the read side of the store
type CatalogService struct {
	catalog  repository.CatalogRepositoryInterface
	carts    repository.CartRepositoryInterface
	orders   repository.OrderRepositoryInterface
	settings CatalogSettings
}

// NewCatalogService creates a catalog service
func NewCatalogService(catalog repository.CatalogRepositoryInterface, carts repository.CartRepositoryInterface, orders repository.OrderRepositoryInterface, settings CatalogSettings) *CatalogService {
	if settings.PageSize <= 0 {
		settings.PageSize = 15
	}
	if settings.PageWindow < 0 {
		settings.PageWindow = 2
	}
	if settings.HomeProductLimit <= 0 {
		settings.HomeProductLimit = 12
	}
	if settings.HomeCategoryLimit <= 0 {
		settings.HomeCategoryLimit = 4
	}
	return &CatalogService{
		catalog:  catalog,
		carts:    carts,
		orders:   orders,
		settings: settings,
	}
}

// Home returns the newest available products and the first categories
func (s *CatalogService) Home(ctx context.Context) (*HomePage, error) {
	products, err := s.catalog.ListNewestProducts(ctx, s.settings.HomeProductLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	categories, err := s.catalog.ListCategories(ctx, s.settings.HomeCategoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return &HomePage{Products: products, Categories: categories}, nil
}

// ListProducts returns a page of available products, optionally within one category
func (s *CatalogService) ListProducts(ctx context.Context, categorySlug, rawPage string) (*ProductPage, error) {
	var category *models.Category
	var categoryID *uint
	if categorySlug != "" {
		c, err := s.catalog.GetCategoryBySlug(ctx, categorySlug)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to get category: %w", err)
		}
		category = c
		categoryID = &c.ID
	}

	requested, err := strconv.Atoi(rawPage)
	if err != nil || requested < 1 {
		requested = 1
	}

	products, total, err := s.catalog.ListAvailableProducts(ctx, categoryID, s.settings.PageSize, (requested-1)*s.settings.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	pagination := NewPagination(rawPage, total, s.settings.PageSize, s.settings.PageWindow)
	if pagination.Page != requested {
		products, total, err = s.catalog.ListAvailableProducts(ctx, categoryID, s.settings.PageSize, pagination.Offset())
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
	}

	return &ProductPage{
		Products:     products,
		ProductCount: total,
		Category:     category,
		Pagination:   pagination,
	}, nil
}

// GetProductDetail loads a product by its category and product slugs.
// InCart reflects the caller's cart; Ordered is only set for signed-in users.
func (s *CatalogService) GetProductDetail(ctx context.Context, categorySlug, productSlug string, owner models.CartOwner) (*ProductDetail, error) {
	product, err := s.catalog.GetProductBySlugs(ctx, categorySlug, productSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	detail := &ProductDetail{Product: product}

	if !owner.IsZero() {
		if detail.InCart, err = s.carts.HasProduct(ctx, owner, product.ID); err != nil {
			return nil, fmt.Errorf("failed to check cart: %w", err)
		}
	}
	if owner.UserID != "" {
		if detail.Ordered, err = s.orders.HasOrderedProduct(ctx, owner.UserID, product.ID); err != nil {
			return nil, fmt.Errorf("failed to check orders: %w", err)
		}
	}

	if detail.Reviews, err = s.catalog.ListApprovedReviews(ctx, product.ID); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	detail.ReviewCount = len(detail.Reviews)
	detail.AverageRating = AverageRating(detail.Reviews)

	if detail.Gallery, err = s.catalog.ListGallery(ctx, product.ID); err != nil {
		return nil, fmt.Errorf("failed to list gallery: %w", err)
	}

	return detail, nil
}

// Search finds products whose name or description contains the keyword
func (s *CatalogService) Search(ctx context.Context, keyword string) (*SearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	result := &SearchResult{Keyword: keyword, Products: []models.Product{}}
	if keyword == "" {
		return result, nil
	}

	products, err := s.catalog.SearchProducts(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	result.Products = products
	result.ProductCount = len(products)
	return result, nil
}

// AverageRating is the mean rating of the reviews rounded to two decimals, or 0 without reviews
func AverageRating(reviews []models.ReviewRating) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(sum/float64(len(reviews))*100) / 100
}
