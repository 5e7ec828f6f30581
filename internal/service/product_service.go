package service

import (
	"context"
	"errors"

	"product-store/internal/model"
	"product-store/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		validate:    newValidator(),
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products ordered by ID with skip/limit pagination.
func (s *productService) List(ctx context.Context, skip, limit int) ([]model.Product, error) {
	fields := map[string]string{}
	if skip < 0 {
		fields["skip"] = "must be zero or greater"
	}
	if limit < 0 {
		fields["limit"] = "must be zero or greater"
	}
	if len(fields) > 0 {
		s.logger.Warn().Int("skip", skip).Int("limit", limit).Msg("invalid pagination")
		return nil, model.NewValidationError("invalid pagination parameters", fields)
	}

	products, err := s.productRepo.GetAll(ctx, limit, skip)
	if err != nil {
		s.logger.Error().Err(err).
			Int("skip", skip).
			Int("limit", limit).
			Msg("failed to list products")
		return nil, model.NewStorageError("fetching products", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("skip", skip).
		Int("limit", limit).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, model.NewStorageError("fetching product", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create validates the payload and inserts it in its own transaction.
func (s *productService) Create(ctx context.Context, req *model.ProductCreate) (product *model.Product, err error) {
	if err := validateCreate(s.validate, req); err != nil {
		s.logger.Warn().Err(err).Msg("invalid product")
		return nil, err
	}

	tx, err := s.productRepo.BeginTx(ctx)
	if err != nil {
		return nil, model.NewStorageError("adding product", err)
	}
	defer s.rollbackOnError(ctx, tx, &err)

	product, err = s.productRepo.Create(ctx, tx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("sku", req.SKU).Msg("failed to create product")
		return nil, model.NewStorageError("adding product", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("sku", req.SKU).Msg("failed to commit transaction")
		return nil, model.NewStorageError("adding product", err)
	}

	s.logger.Info().
		Int64("product_id", product.ID).
		Str("sku", product.SKU).
		Msg("product created successfully")

	return product, nil
}

// Update validates the supplied fields and applies them in its own transaction.
func (s *productService) Update(ctx context.Context, id int64, req *model.ProductUpdate) (product *model.Product, err error) {
	if err := validateUpdate(s.validate, req); err != nil {
		s.logger.Warn().Err(err).Int64("product_id", id).Msg("invalid product update")
		return nil, err
	}

	tx, err := s.productRepo.BeginTx(ctx)
	if err != nil {
		return nil, model.NewStorageError("updating product", err)
	}
	defer s.rollbackOnError(ctx, tx, &err)

	product, err = s.productRepo.Update(ctx, tx, id, req)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, model.NewStorageError("updating product", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found for update")
		return nil, model.ErrProductNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to commit transaction")
		return nil, model.NewStorageError("updating product", err)
	}

	s.logger.Info().
		Int64("product_id", product.ID).
		Bool("empty", req.Empty()).
		Msg("product updated successfully")

	return product, nil
}

// Ping checks that the backing store is reachable.
func (s *productService) Ping(ctx context.Context) error {
	if err := s.productRepo.Ping(ctx); err != nil {
		return model.NewStorageError("checking database", err)
	}
	return nil
}

// rollbackOnError rolls tx back when the surrounding operation failed.
func (s *productService) rollbackOnError(ctx context.Context, tx pgx.Tx, err *error) {
	if *err == nil {
		return
	}
	if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
		s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
	}
}
