package models

import (
	"sort"
	"time"
)

// CartItem is a product line in a cart. Items belong either to an
// authenticated user (UserID) or to a guest cart (CartKey).
type CartItem struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	UserID     string      `json:"userId,omitempty" gorm:"size:100;index"`
	CartKey    string      `json:"cartKey,omitempty" gorm:"size:100;index"`
	ProductID  uint        `json:"productId" gorm:"not null;index"`
	Product    *Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity   int         `json:"quantity" gorm:"not null;check:quantity > 0"`
	IsActive   bool        `json:"isActive" gorm:"not null;default:true"`
	Variations []Variation `json:"variations,omitempty" gorm:"many2many:cart_item_variations;"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// SubTotal returns unit price times quantity. Product must be loaded.
func (ci *CartItem) SubTotal() int64 {
	if ci.Product == nil {
		return 0
	}
	return ci.Product.Price * int64(ci.Quantity)
}

// VariationIDs returns the sorted ids of the selected variations
func (ci *CartItem) VariationIDs() []uint {
	ids := make([]uint, 0, len(ci.Variations))
	for _, v := range ci.Variations {
		ids = append(ids, v.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CartOwner identifies whose cart an operation targets
type CartOwner struct {
	UserID  string
	CartKey string
}

// IsZero reports whether neither a user nor a guest cart is known
func (o CartOwner) IsZero() bool {
	return o.UserID == "" && o.CartKey == ""
}
