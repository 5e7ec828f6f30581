package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"product-store/internal/config"
	"product-store/internal/database"
	"product-store/internal/handler"
	"product-store/internal/repository"
	"product-store/internal/router"
	"product-store/internal/seed"
	"product-store/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
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

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting product-store API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	productRepo := repository.NewProductRepository(pool, logger)
	productService := service.NewProductService(productRepo, logger)

	if cfg.Seed.Enabled {
		if err := importSeed(ctx, cfg.Seed, productService, logger); err != nil {
			return err
		}
	}

	productHandler := handler.NewProductHandler(productService, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.New(productHandler, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
		return nil
	})

	return g.Wait()
}

// importSeed loads the configured seed files into the store before serving.
func importSeed(ctx context.Context, cfg config.SeedConfig, creator seed.Creator, logger zerolog.Logger) error {
	loader, err := seed.NewLoader(ctx, cfg, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialise S3 seed loader, using local file system only")
		loader = seed.NewFileLoader(logger)
	}

	result, err := seed.NewImporter(loader, creator, logger).Import(ctx, cfg.Files)
	if err != nil {
		return fmt.Errorf("failed to import seed data: %w", err)
	}

	logger.Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("invalid", result.Invalid).
		Msg("seed data imported")

	return nil
}
