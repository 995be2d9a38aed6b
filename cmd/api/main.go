package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopkart/internal/config"
	"shopkart/internal/database"
	"shopkart/internal/discount"
	"shopkart/internal/handler"
	"shopkart/internal/repository"
	"shopkart/internal/router"
	"shopkart/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting shopkart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply schema migrations
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	discountRepo := repository.NewDiscountRepository(pool, logger)

	// Import discount catalogues when configured
	if cfg.Discount.ImportEnabled {
		var loader discount.Loader

		if cfg.Discount.S3Enabled {
			s3Loader, err := discount.NewS3Loader(ctx, cfg.Discount.S3Bucket, cfg.Discount.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 loader, falling back to local file system")
				loader = discount.NewFileLoader(logger)
			} else {
				loader = s3Loader
			}
		} else {
			loader = discount.NewFileLoader(logger)
			logger.Info().Msg("using local file system for discount catalogues (S3 disabled)")
		}

		importer := discount.NewImporter(discountRepo, loader, logger)
		if err := importer.Import(ctx, cfg.Discount.ImportPaths); err != nil {
			return fmt.Errorf("failed to import discount catalogues: %w", err)
		}
	}

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	discountService := service.NewDiscountService(discountRepo, cartRepo, logger)
	checkoutService := service.NewCheckoutService(
		orderRepo, productRepo, cartRepo, discountRepo,
		cfg.Checkout.EnforcePriceCheck, logger,
	)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, discountService, logger)
	orderHandler := handler.NewOrderHandler(checkoutService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, checkoutHandler, orderHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
