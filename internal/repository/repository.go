package repository

import (
	"context"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// GetForUpdate retrieves a product inside the transaction, holding a row
	// lock until the transaction ends. Returns nil when the product is missing.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*model.Product, error)

	// DecrementStock atomically decrements stock by quantity if and only if
	// enough stock remains. Returns false when the conditional update matched
	// no row, i.e. insufficient stock.
	DecrementStock(ctx context.Context, tx pgx.Tx, id string, quantity int) (bool, error)
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// GetByUser retrieves the user's cart with its items. Returns nil when the
	// user has no cart yet.
	GetByUser(ctx context.Context, userID string) (*model.Cart, error)

	// UpsertItem adds an item to the user's cart, creating the cart on first
	// add. Adding an existing product increments its quantity.
	UpsertItem(ctx context.Context, userID string, item model.CartItem) (*model.Cart, error)

	// UpdateItemQuantity sets the quantity of an existing cart line.
	UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) error

	// RemoveItem removes a cart line.
	RemoveItem(ctx context.Context, userID, productID string) error

	// ClearTx removes all items from the user's cart within the provided
	// transaction. Used by checkout so the cart empties only when the order
	// commits.
	ClearTx(ctx context.Context, tx pgx.Tx, userID string) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

// DiscountRepository defines the interface for discount data access operations.
type DiscountRepository interface {
	// GetByCode retrieves a discount by its code. Returns nil when no such
	// code exists.
	GetByCode(ctx context.Context, code string) (*model.Discount, error)

	// Upsert inserts or replaces a discount definition. Used by the catalogue
	// importer.
	Upsert(ctx context.Context, discount *model.Discount) error
}
