package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/navafv/familyplus/internal/middleware"
	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/services"
)

// CatalogReader is the read side of the store used by CatalogHandler
type CatalogReader interface {
	Home(ctx context.Context) (*services.HomePage, error)
	ListProducts(ctx context.Context, categorySlug, rawPage string) (*services.ProductPage, error)
	GetProductDetail(ctx context.Context, categorySlug, productSlug string, owner models.CartOwner) (*services.ProductDetail, error)
	Search(ctx context.Context, keyword string) (*services.SearchResult, error)
}

// CatalogHandler handles storefront browsing
type CatalogHandler struct {
	catalog CatalogReader
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Home returns the landing page content
// @Summary Storefront home
// @Description Newest available products and the first categories
// @Tags catalog
// @Produce json
// @Success 200 {object} services.HomePage
// @Failure 500 {object} ErrorResponse
// @Router /home [get]
func (h *CatalogHandler) Home(c *gin.Context) {
	page, err := h.catalog.Home(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListProducts returns a page of available products
// @Summary List products
// @Description Paginated listing of available products, optionally within a category
// @Tags catalog
// @Produce json
// @Param categorySlug path string false "Category slug"
// @Param page query string false "Page number"
// @Success 200 {object} services.ProductPage
// @Failure 404 {object} ErrorResponse
// @Router /store [get]
// @Router /store/category/{categorySlug} [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, err := h.catalog.ListProducts(c.Request.Context(), c.Param("categorySlug"), c.Query("page"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetProduct returns a product with its reviews and gallery
// @Summary Product detail
// @Tags catalog
// @Produce json
// @Param categorySlug path string true "Category slug"
// @Param productSlug path string true "Product slug"
// @Success 200 {object} services.ProductDetail
// @Failure 404 {object} ErrorResponse
// @Router /store/category/{categorySlug}/{productSlug} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	detail, err := h.catalog.GetProductDetail(
		c.Request.Context(),
		c.Param("categorySlug"),
		c.Param("productSlug"),
		middleware.GetCartOwner(c),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Search finds products by keyword
// @Summary Search products
// @Tags catalog
// @Produce json
// @Param keyword query string false "Keyword"
// @Success 200 {object} services.SearchResult
// @Router /store/search [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	result, err := h.catalog.Search(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
