package seed

import (
	"context"
	"errors"
	"fmt"

	"product-store/internal/config"
	"product-store/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Importer loads seed files and stores their records.
type Importer struct {
	loader  Loader
	creator Creator
	logger  zerolog.Logger
}

// NewImporter creates an importer that reads with loader and stores through creator.
func NewImporter(loader Loader, creator Creator, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:  loader,
		creator: creator,
		logger:  logger.With().Str("component", "seed-importer").Logger(),
	}
}

// NewLoader builds the loader described by cfg: local files only, or S3 with
// a local fallback when cfg.S3.Enabled is set.
func NewLoader(ctx context.Context, cfg config.SeedConfig, logger zerolog.Logger) (Loader, error) {
	fileLoader := NewFileLoader(logger)
	if !cfg.S3.Enabled {
		return fileLoader, nil
	}

	s3Loader, err := NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		return nil, err
	}
	return NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger), nil
}

// Import loads every path concurrently, then creates the records in file order.
// Records whose sku already exists are skipped, records failing validation are
// counted as invalid, and any other storage failure stops the import.
func (i *Importer) Import(ctx context.Context, paths []string) (Result, error) {
	var result Result

	batches := make([]*Batch, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for idx, path := range paths {
		idx, path := idx, path
		g.Go(func() error {
			batch, err := i.loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load seed file %s: %w", path, err)
			}
			batches[idx] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		i.logger.Error().Err(err).Msg("seed loading failed")
		return result, err
	}

	for _, batch := range batches {
		result.Loaded += len(batch.Products)
		result.Invalid += batch.Rejected

		for n := range batch.Products {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			req := &batch.Products[n]
			_, err := i.creator.Create(ctx, req)

			var validationErr *model.ValidationError
			switch {
			case err == nil:
				result.Created++
			case errors.Is(err, model.ErrDuplicateSKU):
				i.logger.Debug().Str("sku", req.SKU).Str("source", batch.Source).Msg("sku already present, skipping")
				result.Skipped++
			case errors.As(err, &validationErr):
				i.logger.Warn().
					Str("sku", req.SKU).
					Str("source", batch.Source).
					Interface("fields", validationErr.Fields).
					Msg("invalid seed record")
				result.Invalid++
			default:
				i.logger.Error().Err(err).Str("sku", req.SKU).Str("source", batch.Source).Msg("seed import aborted")
				return result, fmt.Errorf("failed to import %s from %s: %w", req.SKU, batch.Source, err)
			}
		}
	}

	i.logger.Info().
		Int("files", len(paths)).
		Int("loaded", result.Loaded).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("invalid", result.Invalid).
		Msg("seed import finished")

	return result, nil
}
