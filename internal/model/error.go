package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error kinds classify domain errors for HTTP status mapping.
const (
	KindValidation  = "validation"
	KindNotFound    = "not_found"
	KindConflict    = "conflict"
	KindPersistence = "persistence"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeInvalidAddress      = "INVALID_ADDRESS"
	ErrCodeInvalidPayment      = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeProductInactive     = "PRODUCT_INACTIVE"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeCartItemNotFound    = "CART_ITEM_NOT_FOUND"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodePriceChanged        = "PRICE_CHANGED"
	ErrCodeInvalidDiscountCode = "INVALID_DISCOUNT_CODE"
	ErrCodeDiscountExpired     = "DISCOUNT_EXPIRED"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError carries a stable code and a kind used for HTTP status mapping.
type DomainError struct {
	Code    string
	Kind    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, kind, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// NewValidationError creates a validation error with a caller-supplied message.
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(code, KindValidation, message)
}

// NewInsufficientStockError reports the offending product and what is still
// available, so the client can adjust quantities and retry.
func NewInsufficientStockError(productName string, requested, available int) *DomainError {
	return &DomainError{
		Code: ErrCodeInsufficientStock,
		Kind: KindConflict,
		Message: fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
			productName, requested, available),
	}
}

// NewPriceChangedError asks the caller to refresh the cart rather than silently
// charging the new price.
func NewPriceChangedError(productName string) *DomainError {
	return &DomainError{
		Code: ErrCodePriceChanged,
		Kind: KindConflict,
		Message: fmt.Sprintf("price of %q has changed since it was added to the cart, please refresh your cart",
			productName),
	}
}

// Common domain errors
var (
	ErrEmptyCart           = NewDomainError(ErrCodeEmptyCart, KindValidation, "Cart must contain at least one item")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, KindValidation, "Quantity must be greater than zero")
	ErrInvalidPayment      = NewDomainError(ErrCodeInvalidPayment, KindValidation, "Payment method must be card, paypal or cash_on_delivery")
	ErrProductNotFound     = NewDomainError(ErrCodeProductNotFound, KindNotFound, "One or more products not found")
	ErrProductInactive     = NewDomainError(ErrCodeProductInactive, KindConflict, "Product is no longer available")
	ErrOrderNotFound       = NewDomainError(ErrCodeOrderNotFound, KindNotFound, "Order not found")
	ErrCartItemNotFound    = NewDomainError(ErrCodeCartItemNotFound, KindNotFound, "Item is not in the cart")
	ErrInvalidDiscountCode = NewDomainError(ErrCodeInvalidDiscountCode, KindNotFound, "Discount code is not recognised")
	ErrDiscountExpired     = NewDomainError(ErrCodeDiscountExpired, KindConflict, "Discount code is inactive or outside its validity window")
)
