package service

import (
	"context"

	"shopkart/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for product reads.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CartService defines operations for cart management.
type CartService interface {
	// GetCart retrieves the user's cart, which may be empty.
	GetCart(ctx context.Context, userID string) (*model.Cart, error)

	// AddItem adds a product to the user's cart, creating the cart on first add.
	AddItem(ctx context.Context, userID string, req *model.AddItemRequest) (*model.Cart, error)

	// UpdateItem changes the quantity of an existing cart line.
	UpdateItem(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error)

	// RemoveItem removes a cart line.
	RemoveItem(ctx context.Context, userID, productID string) (*model.Cart, error)
}

// CheckoutService converts a cart or an explicit item list into a committed
// order, leaving product stock consistent with the fulfilled quantities, or
// produces no observable change at all.
type CheckoutService interface {
	// Checkout places an order for the given user. When req.Items is empty the
	// user's stored cart is checked out and emptied on success.
	Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error)

	// GetOrder retrieves one of the user's orders with its frozen line items.
	GetOrder(ctx context.Context, userID string, id uuid.UUID) (*model.Order, error)
}

// DiscountService quotes discount codes against a cart subtotal. Quoting
// persists nothing; a discount only takes effect when supplied at checkout.
type DiscountService interface {
	// Quote validates a code and returns the user's cart subtotal with the
	// discount applied.
	Quote(ctx context.Context, userID, code string) (*model.QuoteResponse, error)
}
