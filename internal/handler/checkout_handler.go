package handler

import (
	"encoding/json"
	"net/http"

	"shopkart/internal/model"
	"shopkart/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout and discount quote HTTP requests.
type CheckoutHandler struct {
	checkout service.CheckoutService
	discount service.DiscountService
	logger   zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout service.CheckoutService, discount service.DiscountService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		discount: discount,
		logger:   logger.With().Str("handler", "checkout").Logger(),
	}
}

// Checkout handles POST /api/checkout requests.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.checkout.Checkout(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// Quote handles POST /api/discounts/quote requests. The quote applies the
// code to the caller's current cart subtotal without persisting anything.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	quote, err := h.discount.Quote(r.Context(), userID, req.Code)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}
