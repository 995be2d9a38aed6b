package service

import (
	"context"
	"fmt"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the user's cart. A user without a cart gets an empty one;
// the cart row itself is only created on first add.
func (s *cartService) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if cart == nil {
		return &model.Cart{UserID: userID, Items: []model.CartItem{}}, nil
	}

	return cart, nil
}

// AddItem adds a product to the user's cart. The product must exist and be
// active; its current price is snapshotted onto the cart line.
func (s *cartService) AddItem(ctx context.Context, userID string, req *model.AddItemRequest) (*model.Cart, error) {
	if req == nil || req.ProductID == "" {
		return nil, model.NewValidationError(model.ErrCodeInvalidJSON, "product ID is required")
	}
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID).Msg("failed to get product")
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	if !product.Active {
		return nil, model.ErrProductInactive
	}

	cart, err := s.cartRepo.UpsertItem(ctx, userID, model.CartItem{
		ProductID:  product.ID,
		Quantity:   req.Quantity,
		PriceAtAdd: product.Price,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", req.ProductID).
			Msg("failed to add item to cart")
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Str("product_id", req.ProductID).
		Int("quantity", req.Quantity).
		Msg("item added to cart")

	return cart, nil
}

// UpdateItem changes the quantity of an existing cart line.
func (s *cartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*model.Cart, error) {
	if productID == "" {
		return nil, model.NewValidationError(model.ErrCodeInvalidJSON, "product ID is required")
	}
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, userID, productID, quantity); err != nil {
		if err == model.ErrCartItemNotFound {
			return nil, err
		}
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to update cart item")
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem removes a cart line.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID string) (*model.Cart, error) {
	if productID == "" {
		return nil, model.NewValidationError(model.ErrCodeInvalidJSON, "product ID is required")
	}

	if err := s.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		if err == model.ErrCartItemNotFound {
			return nil, err
		}
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", productID).
			Msg("failed to remove cart item")
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	return s.GetCart(ctx, userID)
}
