package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is a user's transient collection of desired items. One active cart per
// user, created lazily on first add and emptied on successful checkout.
type Cart struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    string     `json:"userId" db:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// CartItem is a single (product, quantity) pair. PriceAtAdd snapshots the
// product price when the item entered the cart and backs the staleness check
// at checkout time.
type CartItem struct {
	ID         uuid.UUID       `json:"-" db:"id"`
	CartID     uuid.UUID       `json:"-" db:"cart_id"`
	ProductID  string          `json:"productId" db:"product_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	PriceAtAdd decimal.Decimal `json:"priceAtAdd" db:"price_at_add"`
}

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest is the payload for changing a cart line's quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// Subtotal returns the cart total at snapshot prices.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.PriceAtAdd.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
