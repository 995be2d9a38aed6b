package service

import (
	"context"
	"fmt"
	"time"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// checkoutLine is a resolved line item entering the transactional phase.
// snapshotPrice is the cart price at add time; explicit item lists carry no
// snapshot and skip the staleness check.
type checkoutLine struct {
	productID     string
	quantity      int
	snapshotPrice *decimal.Decimal
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo         repository.OrderRepository
	productRepo       repository.ProductRepository
	cartRepo          repository.CartRepository
	discountRepo      repository.DiscountRepository
	enforcePriceCheck bool
	logger            zerolog.Logger
}

// NewCheckoutService creates a new checkout service. When enforcePriceCheck is
// set, a cart line whose snapshot price no longer matches the live product
// price aborts the checkout instead of silently charging the new price.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	discountRepo repository.DiscountRepository,
	enforcePriceCheck bool,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		cartRepo:          cartRepo,
		discountRepo:      discountRepo,
		enforcePriceCheck: enforcePriceCheck,
		logger:            logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout places an order for the given user. All validation runs before any
// mutation; the mutation phase is a single database transaction, so a failure
// on any line leaves stock, orders and the cart untouched.
func (s *checkoutService) Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.NewValidationError(model.ErrCodeInvalidJSON, "checkout request is required")
	}

	// Lines are resolved first, so an empty cart is reported ahead of any
	// address or payment problem.
	lines, fromCart, err := s.resolveLines(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	if err := validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	// The caller disconnecting must not interrupt the transaction once the
	// mutation phase has begun; it runs to commit or rollback either way.
	txCtx := context.WithoutCancel(ctx)

	tx, err := s.orderRepo.BeginTx(txCtx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(txCtx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	orderID := uuid.New()
	totalAmount := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(lines))

	// Items are processed in the order supplied. Each line re-reads the live
	// product row under lock and decrements stock with a conditional update,
	// so stock can never go negative even under concurrent checkouts.
	for _, line := range lines {
		var product *model.Product
		product, err = s.productRepo.GetForUpdate(txCtx, tx, line.productID)
		if err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		if product == nil {
			s.logger.Warn().Str("product_id", line.productID).Msg("checkout references missing product")
			err = model.NewDomainError(model.ErrCodeProductNotFound, model.KindNotFound,
				fmt.Sprintf("product %q not found", line.productID))
			return nil, err
		}
		if !product.Active {
			err = model.NewDomainError(model.ErrCodeProductInactive, model.KindConflict,
				fmt.Sprintf("product %q is no longer available", product.Name))
			return nil, err
		}

		if s.enforcePriceCheck && line.snapshotPrice != nil && !line.snapshotPrice.Equal(product.Price) {
			s.logger.Warn().
				Str("product_id", product.ID).
				Str("cart_price", line.snapshotPrice.String()).
				Str("live_price", product.Price.String()).
				Msg("cart price is stale")
			err = model.NewPriceChangedError(product.Name)
			return nil, err
		}

		if product.Stock < line.quantity {
			err = model.NewInsufficientStockError(product.Name, line.quantity, product.Stock)
			return nil, err
		}

		var ok bool
		ok, err = s.productRepo.DecrementStock(txCtx, tx, product.ID, line.quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		if !ok {
			err = model.NewInsufficientStockError(product.Name, line.quantity, product.Stock)
			return nil, err
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.quantity)))
		totalAmount = totalAmount.Add(subtotal)

		orderItems = append(orderItems, model.OrderItem{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.quantity,
			UnitPrice:   product.Price,
			Subtotal:    subtotal,
		})
	}

	if req.DiscountCode != nil && *req.DiscountCode != "" {
		totalAmount, err = s.applyDiscount(txCtx, *req.DiscountCode, totalAmount, now)
		if err != nil {
			return nil, err
		}
	}

	order := &model.Order{
		ID:              orderID,
		UserID:          userID,
		TotalAmount:     totalAmount,
		DiscountCode:    req.DiscountCode,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
		Status:          model.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.orderRepo.CreateOrder(txCtx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(txCtx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// The cart empties in the same transaction as the order insert: a failed
	// checkout never loses the cart, a successful one never keeps it.
	if fromCart {
		if err = s.cartRepo.ClearTx(txCtx, tx, userID); err != nil {
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
	}

	if err = tx.Commit(txCtx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	order.Items = orderItems

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("user_id", userID).
		Int("item_count", len(orderItems)).
		Str("total_amount", totalAmount.String()).
		Msg("order placed")

	return order, nil
}

// GetOrder retrieves one of the user's orders with its frozen line items.
func (s *checkoutService) GetOrder(ctx context.Context, userID string, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	// Orders belonging to other users are indistinguishable from missing ones.
	if order == nil || order.UserID != userID {
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// resolveLines produces the line items to check out: the explicit item list
// when present, the user's stored cart otherwise.
func (s *checkoutService) resolveLines(ctx context.Context, userID string, req *model.CheckoutRequest) ([]checkoutLine, bool, error) {
	if len(req.Items) > 0 {
		lines := make([]checkoutLine, len(req.Items))
		for i, item := range req.Items {
			if item.ProductID == "" {
				return nil, false, model.NewValidationError(model.ErrCodeInvalidJSON,
					fmt.Sprintf("item %d: product ID is required", i))
			}
			if item.Quantity <= 0 {
				return nil, false, model.ErrInvalidQuantity
			}
			lines[i] = checkoutLine{
				productID: item.ProductID,
				quantity:  item.Quantity,
			}
		}
		return lines, false, nil
	}

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load cart")
		return nil, false, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, false, model.ErrEmptyCart
	}

	lines := make([]checkoutLine, len(cart.Items))
	for i, item := range cart.Items {
		price := item.PriceAtAdd
		lines[i] = checkoutLine{
			productID:     item.ProductID,
			quantity:      item.Quantity,
			snapshotPrice: &price,
		}
	}
	return lines, true, nil
}

// applyDiscount resolves the code and folds it into the order total.
func (s *checkoutService) applyDiscount(ctx context.Context, code string, totalAmount decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	d, err := s.discountRepo.GetByCode(ctx, code)
	if err != nil {
		return totalAmount, fmt.Errorf("failed to look up discount: %w", err)
	}
	if d == nil {
		s.logger.Warn().Str("code", code).Msg("unknown discount code at checkout")
		return totalAmount, model.ErrInvalidDiscountCode
	}
	if !d.ValidAt(now) {
		return totalAmount, model.ErrDiscountExpired
	}

	adjusted := d.ApplyTo(totalAmount)
	s.logger.Debug().
		Str("code", code).
		Str("before", totalAmount.String()).
		Str("after", adjusted.String()).
		Msg("discount applied to order total")

	return adjusted, nil
}

// validateCheckoutRequest checks the request's own fields. Product-level
// validation happens later, inside the transaction, against live state.
func validateCheckoutRequest(req *model.CheckoutRequest) error {
	if !req.ShippingAddress.Complete() {
		return model.NewValidationError(model.ErrCodeInvalidAddress,
			"shipping address must include street, city, state, zipCode and country")
	}

	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return model.ErrInvalidPayment
	}

	return nil
}
