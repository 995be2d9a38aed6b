package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shopkart/internal/middleware"
	"shopkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authedRequest builds a request carrying the given user identity, as the
// identity middleware would after reading the X-User-ID header.
func authedRequest(method, target, userID, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

func TestCheckoutHandler_Checkout(t *testing.T) {
	body := `{
		"shippingAddress": {"street":"1 Main St","city":"Springfield","state":"IL","zipCode":"62701","country":"US"},
		"paymentMethod": "card"
	}`

	t.Run("Success", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		discountSvc := new(MockDiscountService)
		h := NewCheckoutHandler(checkoutSvc, discountSvc, zerolog.Nop())

		order := &model.Order{
			ID:            uuid.New(),
			UserID:        "user-1",
			TotalAmount:   decimal.RequireFromString("30.00"),
			PaymentMethod: model.PaymentMethodCard,
			PaymentStatus: model.PaymentStatusPending,
			Status:        model.OrderStatusPending,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		checkoutSvc.On("Checkout", mock.Anything, "user-1", mock.AnythingOfType("*model.CheckoutRequest")).
			Return(order, nil)

		rec := httptest.NewRecorder()
		h.Checkout(rec, authedRequest(http.MethodPost, "/api/checkout", "user-1", body))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var got model.Order
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, order.ID, got.ID)
		checkoutSvc.AssertExpectations(t)
	})

	t.Run("Missing user identity", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		discountSvc := new(MockDiscountService)
		h := NewCheckoutHandler(checkoutSvc, discountSvc, zerolog.Nop())

		rec := httptest.NewRecorder()
		h.Checkout(rec, authedRequest(http.MethodPost, "/api/checkout", "", body))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		checkoutSvc.AssertNotCalled(t, "Checkout")
	})

	t.Run("Invalid JSON body", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		discountSvc := new(MockDiscountService)
		h := NewCheckoutHandler(checkoutSvc, discountSvc, zerolog.Nop())

		rec := httptest.NewRecorder()
		h.Checkout(rec, authedRequest(http.MethodPost, "/api/checkout", "user-1", "{not json"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		checkoutSvc.AssertNotCalled(t, "Checkout")
	})

	t.Run("Insufficient stock maps to 409", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		discountSvc := new(MockDiscountService)
		h := NewCheckoutHandler(checkoutSvc, discountSvc, zerolog.Nop())

		checkoutSvc.On("Checkout", mock.Anything, "user-1", mock.AnythingOfType("*model.CheckoutRequest")).
			Return(nil, model.NewInsufficientStockError("Widget", 2, 1))

		rec := httptest.NewRecorder()
		h.Checkout(rec, authedRequest(http.MethodPost, "/api/checkout", "user-1", body))

		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, model.ErrCodeInsufficientStock, resp.Error)
		assert.Contains(t, resp.Message, "Widget")
	})

	t.Run("Empty cart maps to 400", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		discountSvc := new(MockDiscountService)
		h := NewCheckoutHandler(checkoutSvc, discountSvc, zerolog.Nop())

		checkoutSvc.On("Checkout", mock.Anything, "user-1", mock.AnythingOfType("*model.CheckoutRequest")).
			Return(nil, model.ErrEmptyCart)

		rec := httptest.NewRecorder()
		h.Checkout(rec, authedRequest(http.MethodPost, "/api/checkout", "user-1", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, model.ErrCodeEmptyCart, resp.Error)
	})

	t.Run("Internal error hides detail", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		discountSvc := new(MockDiscountService)
		h := NewCheckoutHandler(checkoutSvc, discountSvc, zerolog.Nop())

		checkoutSvc.On("Checkout", mock.Anything, "user-1", mock.AnythingOfType("*model.CheckoutRequest")).
			Return(nil, assert.AnError)

		rec := httptest.NewRecorder()
		h.Checkout(rec, authedRequest(http.MethodPost, "/api/checkout", "user-1", body))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})
}

func TestCheckoutHandler_Quote(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		discountSvc := new(MockDiscountService)
		h := NewCheckoutHandler(checkoutSvc, discountSvc, zerolog.Nop())

		discountSvc.On("Quote", mock.Anything, "user-1", "SAVE10").Return(&model.QuoteResponse{
			Code:     "SAVE10",
			Subtotal: decimal.RequireFromString("100.00"),
			Total:    decimal.RequireFromString("90.00"),
		}, nil)

		rec := httptest.NewRecorder()
		h.Quote(rec, authedRequest(http.MethodPost, "/api/discounts/quote", "user-1", `{"code":"SAVE10"}`))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got model.QuoteResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "SAVE10", got.Code)
		assert.True(t, got.Total.Equal(decimal.RequireFromString("90.00")))
	})

	t.Run("Unknown code maps to 404", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		discountSvc := new(MockDiscountService)
		h := NewCheckoutHandler(checkoutSvc, discountSvc, zerolog.Nop())

		discountSvc.On("Quote", mock.Anything, "user-1", "NOPE").Return(nil, model.ErrInvalidDiscountCode)

		rec := httptest.NewRecorder()
		h.Quote(rec, authedRequest(http.MethodPost, "/api/discounts/quote", "user-1", `{"code":"NOPE"}`))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Expired code maps to 409", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		discountSvc := new(MockDiscountService)
		h := NewCheckoutHandler(checkoutSvc, discountSvc, zerolog.Nop())

		discountSvc.On("Quote", mock.Anything, "user-1", "OLD").Return(nil, model.ErrDiscountExpired)

		rec := httptest.NewRecorder()
		h.Quote(rec, authedRequest(http.MethodPost, "/api/discounts/quote", "user-1", `{"code":"OLD"}`))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestOrderHandler_GetByID(t *testing.T) {
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		h := NewOrderHandler(checkoutSvc, zerolog.Nop())

		order := &model.Order{ID: orderID, UserID: "user-1", Status: model.OrderStatusPending}
		checkoutSvc.On("GetOrder", mock.Anything, "user-1", orderID).Return(order, nil)

		req := authedRequest(http.MethodGet, "/api/orders/"+orderID.String(), "user-1", "")
		req.SetPathValue("id", orderID.String())
		rec := httptest.NewRecorder()
		h.GetByID(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got model.Order
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, orderID, got.ID)
	})

	t.Run("Malformed ID", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		h := NewOrderHandler(checkoutSvc, zerolog.Nop())

		req := authedRequest(http.MethodGet, "/api/orders/not-a-uuid", "user-1", "")
		req.SetPathValue("id", "not-a-uuid")
		rec := httptest.NewRecorder()
		h.GetByID(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		checkoutSvc.AssertNotCalled(t, "GetOrder")
	})

	t.Run("Not found", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		h := NewOrderHandler(checkoutSvc, zerolog.Nop())

		checkoutSvc.On("GetOrder", mock.Anything, "user-1", orderID).Return(nil, model.ErrOrderNotFound)

		req := authedRequest(http.MethodGet, "/api/orders/"+orderID.String(), "user-1", "")
		req.SetPathValue("id", orderID.String())
		rec := httptest.NewRecorder()
		h.GetByID(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
