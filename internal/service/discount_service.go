package service

import (
	"context"
	"fmt"
	"time"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/rs/zerolog"
)

// discountService implements DiscountService.
type discountService struct {
	discountRepo repository.DiscountRepository
	cartRepo     repository.CartRepository
	logger       zerolog.Logger
}

// NewDiscountService creates a new discount service.
func NewDiscountService(discountRepo repository.DiscountRepository, cartRepo repository.CartRepository, logger zerolog.Logger) DiscountService {
	return &discountService{
		discountRepo: discountRepo,
		cartRepo:     cartRepo,
		logger:       logger.With().Str("service", "discount").Logger(),
	}
}

// Quote validates a code against its activity window and returns the user's
// cart subtotal with the discount applied. Nothing is persisted; the discount
// only takes effect when supplied again at checkout.
func (s *discountService) Quote(ctx context.Context, userID, code string) (*model.QuoteResponse, error) {
	if code == "" {
		return nil, model.NewValidationError(model.ErrCodeInvalidDiscountCode, "discount code is required")
	}

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load cart for quote")
		return nil, fmt.Errorf("failed to quote discount: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	discount, err := s.discountRepo.GetByCode(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("failed to look up discount")
		return nil, fmt.Errorf("failed to quote discount: %w", err)
	}
	if discount == nil {
		s.logger.Debug().Str("code", code).Msg("unknown discount code")
		return nil, model.ErrInvalidDiscountCode
	}
	if !discount.ValidAt(time.Now()) {
		s.logger.Debug().Str("code", code).Msg("discount outside validity window")
		return nil, model.ErrDiscountExpired
	}

	subtotal := cart.Subtotal()
	total := discount.ApplyTo(subtotal)

	s.logger.Debug().
		Str("code", code).
		Str("subtotal", subtotal.String()).
		Str("total", total.String()).
		Msg("discount quoted")

	return &model.QuoteResponse{
		Code:     code,
		Subtotal: subtotal,
		Total:    total,
	}, nil
}
