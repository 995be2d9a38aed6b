package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodCard           = "card"
	PaymentMethodPaypal         = "paypal"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPaypal, PaymentMethodCashOnDelivery:
		return true
	}
	return false
}

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Address holds the shipping address captured on the order. Every field is
// required at checkout.
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zipCode" db:"zip_code"`
	Country string `json:"country" db:"country"`
}

// Complete reports whether every address field is populated.
func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.ZipCode != "" && a.Country != ""
}

// Order is the immutable record of a completed purchase. Only the status
// fields may change after creation.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          string          `json:"userId" db:"user_id"`
	Items           []OrderItem     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount" db:"total_amount"`
	DiscountCode    *string         `json:"discountCode,omitempty" db:"discount_code"`
	ShippingAddress Address         `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod" db:"payment_method"`
	PaymentStatus   string          `json:"paymentStatus" db:"payment_status"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a frozen order line. UnitPrice is the product price at commit
// time; historical orders are insulated from later price changes.
type OrderItem struct {
	ID          uuid.UUID       `json:"-" db:"id"`
	OrderID     uuid.UUID       `json:"-" db:"order_id"`
	ProductID   string          `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" db:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
}

// CheckoutRequest is the payload for placing an order. Items is optional: when
// empty the user's stored cart is checked out; when present the listed items
// are ordered directly.
type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items,omitempty"`
	ShippingAddress Address        `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	DiscountCode    *string        `json:"discountCode,omitempty"`
}

// CheckoutItem is a single line of an explicit checkout item list.
type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
