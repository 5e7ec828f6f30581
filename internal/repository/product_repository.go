package repository

import (
	"context"
	"errors"
	"fmt"

	"product-store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, category, description, product_image, sku,
		       unit_of_measure, lead_time, created_date, updated_date`

// uniqueViolation is the SQLSTATE raised by a unique constraint.
const uniqueViolation = "23505"

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *productRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Ping checks that the database is reachable.
func (r *productRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// GetAll retrieves products ordered by ID with offset/limit pagination.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM product
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM product
		WHERE id = $1
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// Create inserts a product within the provided transaction.
// created_date and updated_date come from the same now() so they start out equal.
func (r *productRepository) Create(ctx context.Context, tx pgx.Tx, req *model.ProductCreate) (*model.Product, error) {
	query := `
		INSERT INTO product (name, category, description, product_image, sku, unit_of_measure, lead_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns

	p, err := scanProduct(tx.QueryRow(ctx, query,
		req.Name,
		string(req.Category),
		req.Description,
		req.ProductImage,
		req.SKU,
		string(req.UnitOfMeasure),
		req.LeadTime,
	))
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn().Str("sku", req.SKU).Msg("duplicate sku on insert")
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicateSKU, req.SKU)
		}
		r.logger.Error().Err(err).Str("sku", req.SKU).Msg("failed to insert product")
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	r.logger.Debug().
		Int64("product_id", p.ID).
		Str("sku", p.SKU).
		Msg("product created successfully")

	return p, nil
}

// Update overwrites the supplied fields within the provided transaction.
// Each column is guarded by its presence flag so absent fields keep their value.
// updated_date always moves forward, even when two updates share a clock tick.
func (r *productRepository) Update(ctx context.Context, tx pgx.Tx, id int64, req *model.ProductUpdate) (*model.Product, error) {
	query := `
		UPDATE product SET
			name            = CASE WHEN $2::boolean  THEN $3::varchar  ELSE name END,
			category        = CASE WHEN $4::boolean  THEN $5::varchar  ELSE category END,
			description     = CASE WHEN $6::boolean  THEN $7::varchar  ELSE description END,
			product_image   = CASE WHEN $8::boolean  THEN $9::varchar  ELSE product_image END,
			sku             = CASE WHEN $10::boolean THEN $11::varchar ELSE sku END,
			unit_of_measure = CASE WHEN $12::boolean THEN $13::varchar ELSE unit_of_measure END,
			lead_time       = CASE WHEN $14::boolean THEN $15::integer ELSE lead_time END,
			updated_date    = GREATEST(clock_timestamp(), updated_date + INTERVAL '1 microsecond')
		WHERE id = $1
		RETURNING ` + productColumns

	category := model.Field[string]{Value: string(req.Category.Value), Set: req.Category.Set, Null: req.Category.Null}
	unit := model.Field[string]{Value: string(req.UnitOfMeasure.Value), Set: req.UnitOfMeasure.Set, Null: req.UnitOfMeasure.Null}

	p, err := scanProduct(tx.QueryRow(ctx, query,
		id,
		req.Name.Set, req.Name.Ptr(),
		category.Set, category.Ptr(),
		req.Description.Set, req.Description.Ptr(),
		req.ProductImage.Set, req.ProductImage.Ptr(),
		req.SKU.Set, req.SKU.Ptr(),
		unit.Set, unit.Ptr(),
		req.LeadTime.Set, req.LeadTime.Ptr(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found for update")
			return nil, nil
		}
		if isUniqueViolation(err) {
			r.logger.Warn().Int64("product_id", id).Str("sku", req.SKU.Value).Msg("duplicate sku on update")
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicateSKU, req.SKU.Value)
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	r.logger.Debug().
		Int64("product_id", p.ID).
		Msg("product updated successfully")

	return p, nil
}

// scanProduct reads one product row in productColumns order.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p        model.Product
		category string
		unit     string
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&category,
		&p.Description,
		&p.ProductImage,
		&p.SKU,
		&unit,
		&p.LeadTime,
		&p.CreatedDate,
		&p.UpdatedDate,
	)
	if err != nil {
		return nil, err
	}
	p.Category = model.Category(category)
	p.UnitOfMeasure = model.UnitOfMeasure(unit)
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
