package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Payment status and method defaults recorded for cash on delivery orders
const (
	PaymentMethodCashOnDelivery = "Cash On Delivery"
	PaymentStatusPending        = "Pending"
)

// Order is a purchase. It is created pending (IsOrdered=false) when the
// checkout form is submitted and moves once to ordered when payment is recorded.
type Order struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"userId" gorm:"size:100;not null;index"`
	PaymentID    *uint     `json:"paymentId,omitempty" gorm:"index"`
	Payment      *Payment  `json:"payment,omitempty" gorm:"foreignKey:PaymentID"`
	OrderNumber  string    `json:"orderNumber" gorm:"size:30;index"`
	FirstName    string    `json:"firstName" gorm:"size:50;not null"`
	LastName     string    `json:"lastName" gorm:"size:50;not null"`
	Phone        string    `json:"phone" gorm:"size:20;not null"`
	Email        string    `json:"email" gorm:"size:100;not null"`
	AddressLine1 string    `json:"addressLine1" gorm:"size:100;not null"`
	AddressLine2 string    `json:"addressLine2,omitempty" gorm:"size:100"`
	Country      string    `json:"country" gorm:"size:50;not null"`
	State        string    `json:"state" gorm:"size:50;not null"`
	City         string    `json:"city" gorm:"size:50;not null"`
	OrderNote    string    `json:"orderNote,omitempty" gorm:"size:100"`
	OrderTotal   int64     `json:"orderTotal" gorm:"not null"`
	Shipping     int64     `json:"shipping" gorm:"not null"`
	IP           string    `json:"ip,omitempty" gorm:"size:45"`
	IsOrdered    bool      `json:"isOrdered" gorm:"not null;default:false;index"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Items []OrderProduct `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// FullName returns the customer's first and last name
func (o *Order) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// FullAddress joins both address lines
func (o *Order) FullAddress() string {
	if o.AddressLine2 == "" {
		return o.AddressLine1
	}
	return o.AddressLine1 + ", " + o.AddressLine2
}

// Payment records how an order was paid. Immutable once created.
type Payment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"userId" gorm:"size:100;not null;index"`
	PaymentID     string    `json:"paymentId" gorm:"size:100;not null;index"`
	PaymentMethod string    `json:"paymentMethod" gorm:"size:100;not null"`
	AmountPaid    int64     `json:"amountPaid" gorm:"not null"`
	Status        string    `json:"status" gorm:"size:100;not null"`
	CreatedAt     time.Time `json:"createdAt"`
}

// OrderProduct is the purchased snapshot of one cart line. ProductPrice is
// copied at purchase time and never follows later catalog price changes.
type OrderProduct struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	OrderID         uint           `json:"orderId" gorm:"not null;index"`
	PaymentID       *uint          `json:"paymentId,omitempty" gorm:"index"`
	UserID          string         `json:"userId" gorm:"size:100;not null;index"`
	ProductID       uint           `json:"productId" gorm:"not null;index"`
	Product         *Product       `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity        int            `json:"quantity" gorm:"not null"`
	ProductPrice    int64          `json:"productPrice" gorm:"not null"`
	Ordered         bool           `json:"ordered" gorm:"not null;default:false"`
	Variations      []Variation    `json:"variations,omitempty" gorm:"many2many:order_product_variations;"`
	VariationLabels pq.StringArray `json:"variationLabels,omitempty" gorm:"type:text[]"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// LineTotal returns the snapshot price times quantity
func (op *OrderProduct) LineTotal() int64 {
	return op.ProductPrice * int64(op.Quantity)
}
