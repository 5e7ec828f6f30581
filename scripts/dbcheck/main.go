package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"product-store/internal/config"

	"github.com/jackc/pgx/v5"
)

// dbcheck connects with the service's configuration and reports the database
// name, server version and whether the product table exists.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName, version string
	err = conn.QueryRow(ctx, "SELECT current_database(), current_setting('server_version')").Scan(&dbName, &version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s (PostgreSQL %s)\n", dbName, version)

	var count int64
	err = conn.QueryRow(ctx, "SELECT COUNT(*) FROM product").Scan(&count)
	if err != nil {
		fmt.Printf("product table not readable yet: %v\n", err)
		return
	}
	fmt.Printf("product table holds %d records\n", count)
}
