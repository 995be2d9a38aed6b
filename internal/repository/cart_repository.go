package repository

import (
	"context"
	"fmt"
	"time"

	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetByUser retrieves the user's cart with its items in the order they were
// first added.
func (r *cartRepository) GetByUser(ctx context.Context, userID string) (*model.Cart, error) {
	cartQuery := `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", userID).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT id, cart_id, product_id, quantity, price_at_add
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.PriceAtAdd)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// UpsertItem adds an item to the user's cart, creating the cart lazily on
// first add. Re-adding a product increments its quantity and refreshes the
// price snapshot.
func (r *cartRepository) UpsertItem(ctx context.Context, userID string, item model.CartItem) (*model.Cart, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	now := time.Now()

	cartQuery := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = $3
		RETURNING id
	`

	var cartID uuid.UUID
	if err := tx.QueryRow(ctx, cartQuery, uuid.New(), userID, now).Scan(&cartID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to upsert cart")
		return nil, fmt.Errorf("failed to upsert cart: %w", err)
	}

	itemQuery := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, price_at_add)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    price_at_add = EXCLUDED.price_at_add
	`

	_, err = tx.Exec(ctx, itemQuery, uuid.New(), cartID, item.ProductID, item.Quantity, item.PriceAtAdd)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", item.ProductID).
			Msg("failed to upsert cart item")
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to commit cart upsert")
		return nil, fmt.Errorf("failed to commit cart upsert: %w", err)
	}

	return r.GetByUser(ctx, userID)
}

// UpdateItemQuantity sets the quantity of an existing cart line.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $1
		WHERE product_id = $2
		  AND cart_id = (SELECT id FROM carts WHERE user_id = $3)
	`

	tag, err := r.pool.Exec(ctx, query, quantity, productID, userID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to update cart item quantity")
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

// RemoveItem removes a cart line.
func (r *cartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	query := `
		DELETE FROM cart_items
		WHERE product_id = $1
		  AND cart_id = (SELECT id FROM carts WHERE user_id = $2)
	`

	tag, err := r.pool.Exec(ctx, query, productID, userID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

// ClearTx removes all items from the user's cart within the transaction. The
// cart row itself is kept; an empty cart and no cart are equivalent.
func (r *cartRepository) ClearTx(ctx context.Context, tx pgx.Tx, userID string) error {
	query := `
		DELETE FROM cart_items
		WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)
	`

	_, err := tx.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().Str("user_id", userID).Msg("cart cleared")

	return nil
}
