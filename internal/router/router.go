package router

import (
	"net/http"

	"shopkart/internal/handler"
	"shopkart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	orderHandler *handler.OrderHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Product routes
	mux.HandleFunc("GET /api/products", productHandler.GetAll)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)

	// Cart routes
	mux.HandleFunc("GET /api/cart", cartHandler.Get)
	mux.HandleFunc("POST /api/cart/items", cartHandler.AddItem)
	mux.HandleFunc("PUT /api/cart/items/{productID}", cartHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{productID}", cartHandler.RemoveItem)

	// Checkout and discount routes
	mux.HandleFunc("POST /api/checkout", checkoutHandler.Checkout)
	mux.HandleFunc("POST /api/discounts/quote", checkoutHandler.Quote)

	// Order routes
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth -> UserIdentity
	var h http.Handler = mux
	h = middleware.UserIdentity(h)
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
