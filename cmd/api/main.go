package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/coupon"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/storage"
	"storefront/internal/validation"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
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
	logger := config.NewLogger(cfg.Logger, os.Stdout)
	logger.Info().
		Str("storage_backend", cfg.Storage.Backend).
		Str("catalog_source", cfg.Shop.CatalogSource).
		Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The pool is only opened when a component stores data in PostgreSQL.
	var pool *pgxpool.Pool
	if cfg.UsesPostgres() {
		pool, err = database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()
	}

	adapter, closeStorage, err := storage.Open(ctx, cfg, pool, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logger.Error().Err(err).Msg("failed to close storage")
		}
	}()

	source, err := openCatalog(ctx, cfg, pool, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog: %w", err)
	}

	couponValidator, err := openCoupons(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize coupon validator: %w", err)
	}
	defer couponValidator.Close()

	// Initialize services
	stepValidator := validation.New()

	catalogService := service.NewCatalogService(source, logger)
	cartService, err := service.NewCartService(ctx, adapter, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cart: %w", err)
	}
	wishlistService, err := service.NewWishlistService(ctx, adapter, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize wishlist: %w", err)
	}
	compareService, err := service.NewCompareService(ctx, adapter, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize compare list: %w", err)
	}
	viewedService, err := service.NewRecentlyViewedService(ctx, adapter, cfg.Shop.RecentlyViewedMax, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize recently viewed list: %w", err)
	}
	addressBook, err := service.NewAddressBook(ctx, adapter, stepValidator, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize address book: %w", err)
	}
	orderHistory, err := service.NewOrderHistory(ctx, adapter, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize order history: %w", err)
	}
	checkoutService := service.NewCheckoutService(cartService, orderHistory, couponValidator, checkout.Options{
		Currency:  cfg.Shop.Currency,
		Validator: stepValidator,
	}, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Catalog:        handler.NewCatalogHandler(catalogService, viewedService, logger),
		Cart:           handler.NewCartHandler(catalogService, cartService, logger),
		Wishlist:       handler.NewWishlistHandler(catalogService, wishlistService, logger),
		Compare:        handler.NewCompareHandler(catalogService, compareService, logger),
		RecentlyViewed: handler.NewRecentlyViewedHandler(catalogService, viewedService, logger),
		Checkout:       handler.NewCheckoutHandler(checkoutService, logger),
		Addresses:      handler.NewAddressHandler(addressBook, logger),
		Orders:         handler.NewOrderHandler(orderHistory, logger),
	}

	// Initialize router
	mux := router.New(handlers, cfg.Auth.APIKey, logger)

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

// openCatalog returns the embedded seed catalogue, or the PostgreSQL one when
// configured. An empty database is populated from the seed.
func openCatalog(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (catalog.Source, error) {
	seed, err := catalog.NewSeedSource()
	if err != nil {
		return nil, err
	}
	if cfg.Shop.CatalogSource != config.CatalogPostgres {
		return seed, nil
	}

	repo := repository.NewProductRepository(pool, logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		logger.Info().Msg("catalog tables are empty, importing seed catalog")
		if err := repo.Import(ctx, seed); err != nil {
			return nil, err
		}
	}

	return repo, nil
}

// openCoupons loads the configured coupon files from S3, falling back to the
// local file system.
func openCoupons(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (coupon.Validator, error) {
	fileLoader := coupon.NewFileLoader(logger)

	var s3Loader coupon.Loader
	if cfg.S3.Enabled {
		loader, err := coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for coupon files (S3 disabled)")
	}

	loader := coupon.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)

	validatorConfig := coupon.DefaultValidatorConfig()
	validatorConfig.FilePaths = cfg.Shop.CouponFiles

	return coupon.NewValidator(ctx, validatorConfig, loader, logger)
}
