package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"product-store/internal/model"
)

// seedgen writes a sample gzipped JSON Lines seed file. Two records are
// deliberately invalid so an import reports them.
func main() {
	out := flag.String("out", "data/seed/products.jsonl.gz", "output file")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	lead := func(days int32) *int32 { return &days }
	text := func(s string) *string { return &s }

	products := []any{
		model.ProductCreate{Name: "Bolt", Category: model.CategoryRaw, SKU: "BLT-001", UnitOfMeasure: model.UnitUnit},
		model.ProductCreate{Name: "Hex nut", Category: model.CategoryRaw, SKU: "NUT-001", UnitOfMeasure: model.UnitPack, LeadTime: lead(3)},
		model.ProductCreate{
			Name:          "Copper wire",
			Category:      model.CategorySemiFinished,
			Description:   text("2.5mm insulated copper wire"),
			SKU:           "CW-25",
			UnitOfMeasure: model.UnitMetre,
			LeadTime:      lead(7),
		},
		model.ProductCreate{
			Name:          "Hydraulic oil",
			Category:      model.CategoryRaw,
			SKU:           "OIL-46",
			UnitOfMeasure: model.UnitLitre,
		},
		model.ProductCreate{
			Name:          "Gearbox assembly",
			Category:      model.CategoryFinished,
			Description:   text("Two-stage reduction gearbox"),
			ProductImage:  text("images/gearbox.png"),
			SKU:           "GBX-200",
			UnitOfMeasure: model.UnitUnit,
			LeadTime:      lead(21),
		},
		// Unknown category, rejected while decoding.
		map[string]any{"name": "Mystery", "category": "liquid", "sku": "MYS-1", "unit_of_measure": "ml"},
		// Missing name, rejected by validation.
		map[string]any{"category": "raw", "sku": "NONAME-1", "unit_of_measure": "gm"},
	}

	if err := writeSeedFile(*out, products); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d records (2 invalid)\n", *out, len(products))
}

func writeSeedFile(path string, records []any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	enc := json.NewEncoder(gzipWriter)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return gzipWriter.Close()
}
