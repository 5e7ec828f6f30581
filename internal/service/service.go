package service

import (
	"context"

	"product-store/internal/model"
)

// ProductService defines operations for product management.
type ProductService interface {
	// List retrieves products ordered by ID, skipping the first skip records.
	List(ctx context.Context, skip, limit int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create validates and stores a new product.
	Create(ctx context.Context, req *model.ProductCreate) (*model.Product, error)

	// Update overwrites the supplied fields of an existing product.
	Update(ctx context.Context, id int64, req *model.ProductUpdate) (*model.Product, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}
