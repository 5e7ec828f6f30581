// Package seed imports product records from gzip-compressed JSON Lines files,
// read from the local file system or from AWS S3.
package seed

import (
	"context"

	"product-store/internal/model"
)

// Batch is the decoded content of one seed file.
type Batch struct {
	// Source is the path or S3 key the batch was read from.
	Source string

	// Products holds every line that decoded into a product payload.
	Products []model.ProductCreate

	// Rejected counts lines whose fields failed decoding (e.g. an unknown category).
	Rejected int
}

// Loader defines the interface for loading seed files.
type Loader interface {
	// Load reads a gzipped JSON Lines file and returns its records.
	Load(ctx context.Context, path string) (*Batch, error)
}

// Creator stores a single product. service.ProductService satisfies it.
type Creator interface {
	Create(ctx context.Context, req *model.ProductCreate) (*model.Product, error)
}

// Result summarises an import run.
type Result struct {
	Loaded  int `json:"loaded"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Invalid int `json:"invalid"`
}
