package models

import (
	"time"
)

// VariationCategory groups product variations
type VariationCategory string

const (
	VariationColor VariationCategory = "color"
	VariationSize  VariationCategory = "size"
)

// Category is a product category of the storefront
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Slug        string    `json:"slug" gorm:"size:100;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	Image       string    `json:"image,omitempty" gorm:"size:500"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Product is a sellable catalog item. Price is in whole currency units.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:200;not null;uniqueIndex"`
	Slug        string    `json:"slug" gorm:"size:200;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	Price       int64     `json:"price" gorm:"not null"`
	Image       string    `json:"image,omitempty" gorm:"size:500"`
	Stock       int       `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	IsAvailable bool      `json:"isAvailable" gorm:"not null;default:true;index"`
	CategoryID  uint      `json:"categoryId" gorm:"not null;index"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Variations []Variation `json:"variations,omitempty" gorm:"foreignKey:ProductID"`
}

// URLPath returns the storefront path of the product detail page
func (p *Product) URLPath() string {
	if p.Category == nil {
		return "/store/" + p.Slug
	}
	return "/store/category/" + p.Category.Slug + "/" + p.Slug
}

// ProductGallery holds secondary product images
type ProductGallery struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"productId" gorm:"not null;index"`
	Image     string    `json:"image" gorm:"size:500;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// Variation is a selectable option of a product such as a color or size
type Variation struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	ProductID uint              `json:"productId" gorm:"not null;index"`
	Category  VariationCategory `json:"category" gorm:"size:20;not null"`
	Value     string            `json:"value" gorm:"size:100;not null"`
	IsActive  bool              `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Label renders the variation as "category: value"
func (v Variation) Label() string {
	return string(v.Category) + ": " + v.Value
}

// ReviewRating is a user's review of a product. One per (user, product).
type ReviewRating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"productId" gorm:"not null;uniqueIndex:idx_review_user_product"`
	UserID    string    `json:"userId" gorm:"size:100;not null;uniqueIndex:idx_review_user_product"`
	Subject   string    `json:"subject" gorm:"size:100"`
	Review    string    `json:"review" gorm:"type:text"`
	Rating    float64   `json:"rating" gorm:"not null"`
	IP        string    `json:"ip,omitempty" gorm:"size:45"`
	Status    bool      `json:"status" gorm:"not null;default:true;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
