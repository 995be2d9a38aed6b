package repository

import (
	"context"
	"fmt"

	"shopkart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// discountRepository implements the DiscountRepository interface using PostgreSQL.
type discountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountRepository creates a new PostgreSQL-backed discount repository.
func NewDiscountRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

// GetByCode retrieves a discount by its code.
func (r *discountRepository) GetByCode(ctx context.Context, code string) (*model.Discount, error) {
	query := `
		SELECT code, type, amount, active, starts_at, ends_at, created_at
		FROM discounts
		WHERE code = $1
	`

	var d model.Discount
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&d.Code, &d.Type, &d.Amount, &d.Active, &d.StartsAt, &d.EndsAt, &d.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("code", code).Msg("discount not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query discount")
		return nil, fmt.Errorf("failed to query discount: %w", err)
	}

	return &d, nil
}

// Upsert inserts or replaces a discount definition.
func (r *discountRepository) Upsert(ctx context.Context, discount *model.Discount) error {
	query := `
		INSERT INTO discounts (code, type, amount, active, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE
		SET type = EXCLUDED.type,
		    amount = EXCLUDED.amount,
		    active = EXCLUDED.active,
		    starts_at = EXCLUDED.starts_at,
		    ends_at = EXCLUDED.ends_at
	`

	_, err := r.pool.Exec(ctx, query,
		discount.Code, discount.Type, discount.Amount,
		discount.Active, discount.StartsAt, discount.EndsAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("code", discount.Code).Msg("failed to upsert discount")
		return fmt.Errorf("failed to upsert discount: %w", err)
	}

	return nil
}
