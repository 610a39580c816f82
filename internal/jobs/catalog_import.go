package jobs

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/navafv/familyplus/internal/clients"
	"github.com/navafv/familyplus/internal/models"
	"github.com/navafv/familyplus/internal/repository"
)

// Media sub-directories for imported images
const (
	ProductImageDir = "photos/products"
	GalleryImageDir = "store/products"
)

// ImageFetcher downloads an image and returns where it was stored
type ImageFetcher interface {
	Fetch(ctx context.Context, imageURL, dir, prefix string) (string, error)
}

// CatalogImportJob loads products from the external catalog into the store
type CatalogImportJob struct {
	source  clients.CatalogClient
	catalog repository.CatalogRepositoryInterface
	images  ImageFetcher
	logger  *logrus.Entry
}

// NewCatalogImportJob creates an import job
func NewCatalogImportJob(source clients.CatalogClient, catalog repository.CatalogRepositoryInterface, images ImageFetcher, logger *logrus.Logger) *CatalogImportJob {
	return &CatalogImportJob{
		source:  source,
		catalog: catalog,
		images:  images,
		logger:  logger.WithField("component", "catalog_import"),
	}
}

// Run imports every record of the listing. Only a failure to fetch the
// listing aborts the run; each record otherwise ends in its own outcome.
func (j *CatalogImportJob) Run(ctx context.Context) ([]models.ImportOutcome, error) {
	products, err := j.source.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	j.logger.WithField("records", len(products)).Info("Catalog fetched")

	outcomes := make([]models.ImportOutcome, 0, len(products))
	for i, p := range products {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome := j.importProduct(ctx, p)
		outcome.Index = i
		outcomes = append(outcomes, outcome)

		entry := j.logger.WithFields(logrus.Fields{
			"title":   p.Title,
			"outcome": outcome.Kind,
		})
		switch outcome.Kind {
		case models.ImportFailed:
			entry.WithField("reason", outcome.Reason).Error("Product import failed")
		case models.ImportSkipped:
			entry.WithField("reason", outcome.Reason).Info("Product skipped")
		default:
			entry.WithField("productId", outcome.ProductID).Info("Product imported")
		}
	}

	return outcomes, nil
}

func (j *CatalogImportJob) importProduct(ctx context.Context, p clients.ExternalProduct) models.ImportOutcome {
	outcome := models.ImportOutcome{Title: p.Title}
	failed := func(format string, args ...interface{}) models.ImportOutcome {
		outcome.Kind = models.ImportFailed
		outcome.Reason = fmt.Sprintf(format, args...)
		return outcome
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		return failed("missing title")
	}

	exists, err := j.catalog.ProductNameExists(ctx, title)
	if err != nil {
		return failed("failed to check product: %v", err)
	}
	if exists {
		outcome.Kind = models.ImportSkipped
		outcome.Reason = "product already exists"
		return outcome
	}

	categoryName := CategoryName(p.Category)
	if categoryName == "" {
		return failed("missing category")
	}
	category, categoryCreated, err := j.catalog.GetOrCreateCategoryByName(
		ctx,
		categoryName,
		GenerateSlug(categoryName),
		fmt.Sprintf("A collection of great products in the %s category.", categoryName),
	)
	if err != nil {
		return failed("failed to get category: %v", err)
	}

	slug := GenerateSlug(title)
	var mainImage string
	if len(p.Images) > 0 {
		mainImage, err = j.images.Fetch(ctx, p.Images[0], ProductImageDir, slug)
		if err != nil {
			outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("main image: %v", err))
			mainImage = ""
		}
	}

	product := &models.Product{
		Name:        title,
		Slug:        slug,
		Description: p.Description,
		Price:       p.PriceUnits(),
		Image:       mainImage,
		Stock:       max(p.Stock, 0),
		IsAvailable: true,
		CategoryID:  category.ID,
	}
	if err := j.catalog.CreateProduct(ctx, product); err != nil {
		return failed("failed to create product: %v", err)
	}
	outcome.ProductID = product.ID

	// A category created by this record shows the record's main image
	if categoryCreated && mainImage != "" {
		if err := j.catalog.UpdateCategoryImage(ctx, category.ID, mainImage); err != nil {
			return failed("failed to set category image: %v", err)
		}
	}

	for _, imageURL := range p.Images[min(1, len(p.Images)):] {
		stored, err := j.images.Fetch(ctx, imageURL, GalleryImageDir, slug)
		if err != nil {
			outcome.Warnings = append(outcome.Warnings, fmt.Sprintf("gallery image: %v", err))
			continue
		}
		if err := j.catalog.AddGalleryImage(ctx, &models.ProductGallery{ProductID: product.ID, Image: stored}); err != nil {
			return failed("failed to add gallery image: %v", err)
		}
	}

	outcome.Kind = models.ImportCreated
	return outcome
}

// CategoryName turns an external category key such as "home-decoration"
// into a display name such as "Home Decoration".
func CategoryName(raw string) string {
	words := strings.Fields(strings.ReplaceAll(raw, "-", " "))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// GenerateSlug lowercases name, joins words with hyphens and drops
// anything that is not a letter, digit or hyphen. Accented letters are
// decomposed first so they keep their base letter.
func GenerateSlug(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(norm.NFKD.String(name)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
