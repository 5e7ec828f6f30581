package repository

import (
	"context"

	"product-store/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// GetAll retrieves products ordered by ID with offset/limit pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	// Returns nil without an error when no product has that ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create inserts a product within the provided transaction and returns the stored row.
	// A duplicate sku yields an error wrapping model.ErrDuplicateSKU.
	Create(ctx context.Context, tx pgx.Tx, req *model.ProductCreate) (*model.Product, error)

	// Update overwrites the supplied fields within the provided transaction.
	// Returns nil without an error when no product has that ID.
	Update(ctx context.Context, tx pgx.Tx, id int64, req *model.ProductUpdate) (*model.Product, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}
