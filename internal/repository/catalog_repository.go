package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/navafv/familyplus/internal/models"
)

// CatalogRepositoryInterface defines the catalog, review and import data operations
type CatalogRepositoryInterface interface {
	ListCategories(ctx context.Context, limit int) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListAvailableProducts(ctx context.Context, categoryID *uint, limit, offset int) ([]models.Product, int64, error)
	ListNewestProducts(ctx context.Context, limit int) ([]models.Product, error)
	SearchProducts(ctx context.Context, keyword string) ([]models.Product, error)
	GetProductBySlugs(ctx context.Context, categorySlug, productSlug string) (*models.Product, error)
	GetProductByID(ctx context.Context, id uint) (*models.Product, error)
	ListGallery(ctx context.Context, productID uint) ([]models.ProductGallery, error)
	ListApprovedReviews(ctx context.Context, productID uint) ([]models.ReviewRating, error)
	GetReview(ctx context.Context, userID string, productID uint) (*models.ReviewRating, error)
	SaveReview(ctx context.Context, review *models.ReviewRating) error

	ProductNameExists(ctx context.Context, name string) (bool, error)
	GetOrCreateCategoryByName(ctx context.Context, name, slug, description string) (*models.Category, bool, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateCategoryImage(ctx context.Context, categoryID uint, image string) error
	AddGalleryImage(ctx context.Context, gallery *models.ProductGallery) error
	CreateImportRun(ctx context.Context, run *models.ImportRun) error
}

// CatalogRepository handles database operations for products and categories
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories returns categories in creation order. limit <= 0 returns all.
func (r *CatalogRepository) ListCategories(ctx context.Context, limit int) ([]models.Category, error) {
	var categories []models.Category
	query := r.db.WithContext(ctx).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&categories).Error
	return categories, err
}

// GetCategoryBySlug retrieves a category by its slug
func (r *CatalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// ListAvailableProducts returns one page of available products ordered by id
func (r *CatalogRepository) ListAvailableProducts(ctx context.Context, categoryID *uint, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_available = ?", true)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Category").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListNewestProducts returns the most recently added available products
func (r *CatalogRepository) ListNewestProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_available = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// SearchProducts matches the keyword against product name or description, newest first
func (r *CatalogRepository) SearchProducts(ctx context.Context, keyword string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("LOWER(description) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern).
		Order("created_at DESC, id DESC").
		Find(&products).Error
	return products, err
}

// GetProductBySlugs retrieves a product by its category slug and own slug
func (r *CatalogRepository) GetProductBySlugs(ctx context.Context, categorySlug, productSlug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Joins("Category").
		Preload("Variations", "is_active = ?", true).
		Where("\"Category\".slug = ? AND products.slug = ?", categorySlug, productSlug).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetProductByID retrieves a product by ID
func (r *CatalogRepository) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ListGallery returns the gallery images of a product
func (r *CatalogRepository) ListGallery(ctx context.Context, productID uint) ([]models.ProductGallery, error) {
	var gallery []models.ProductGallery
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id ASC").Find(&gallery).Error
	return gallery, err
}

// ListApprovedReviews returns reviews with status=true for a product
func (r *CatalogRepository) ListApprovedReviews(ctx context.Context, productID uint) ([]models.ReviewRating, error) {
	var reviews []models.ReviewRating
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, true).
		Order("updated_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// GetReview retrieves the review a user left on a product
func (r *CatalogRepository) GetReview(ctx context.Context, userID string, productID uint) (*models.ReviewRating, error) {
	var review models.ReviewRating
	err := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// SaveReview inserts or updates a review
func (r *CatalogRepository) SaveReview(ctx context.Context, review *models.ReviewRating) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// ProductNameExists checks for a product with the same name, ignoring case
func (r *CatalogRepository) ProductNameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	return count > 0, err
}

// GetOrCreateCategoryByName finds a category by name (case-insensitive) or creates it.
// The boolean reports whether the category was created by this call.
func (r *CatalogRepository) GetOrCreateCategoryByName(ctx context.Context, name, slug, description string) (*models.Category, bool, error) {
	var category models.Category
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("LOWER(name) = LOWER(?)", name).First(&category).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		category = models.Category{
			Name:        name,
			Slug:        slug,
			Description: description,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&category)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost a race with a concurrent import
			return tx.Where("LOWER(name) = LOWER(?)", name).First(&category).Error
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &category, created, nil
}

// CreateProduct inserts a new product
func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateCategoryImage sets the category's image path
func (r *CatalogRepository) UpdateCategoryImage(ctx context.Context, categoryID uint, image string) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", categoryID).
		Update("image", image).Error
}

// AddGalleryImage inserts a gallery image for a product
func (r *CatalogRepository) AddGalleryImage(ctx context.Context, gallery *models.ProductGallery) error {
	return r.db.WithContext(ctx).Create(gallery).Error
}

// CreateImportRun stores the audit record of an import run
func (r *CatalogRepository) CreateImportRun(ctx context.Context, run *models.ImportRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
