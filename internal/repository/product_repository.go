package repository

import (
	"context"
	"fmt"

	"shopkart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, name, price, stock, active, category, created_at
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan product rows")
		return nil, err
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT id, name, price, stock, active, category, created_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Stock, &p.Active, &p.Category, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT id, name, price, stock, active, category, created_at
		FROM products
		WHERE id = ANY($1)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan product rows")
		return nil, err
	}

	return products, nil
}

// GetForUpdate retrieves a product within the transaction with a row lock, so
// concurrent checkouts for the same product serialise at the product record.
func (r *productRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (*model.Product, error) {
	query := `
		SELECT id, name, price, stock, active, category, created_at
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var p model.Product
	err := tx.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Stock, &p.Active, &p.Category, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found for update")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to lock product")
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	return &p, nil
}

// DecrementStock applies "decrement stock by N iff stock >= N" as a single
// conditional update. The sufficiency check and the write are one statement,
// so two buyers of the last unit cannot both succeed.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id string, quantity int) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $1
		WHERE id = $2
		  AND active
		  AND stock >= $1
	`

	tag, err := tx.Exec(ctx, query, quantity, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", id).
			Int("quantity", quantity).
			Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().
			Str("product_id", id).
			Int("quantity", quantity).
			Msg("stock decrement rejected")
		return false, nil
	}

	return true, nil
}

// scanProducts drains a product result set.
func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Active, &p.Category, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
