package seed

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"product-store/internal/model"

	"github.com/rs/zerolog"
)

// maxLineBytes bounds a single JSON line.
const maxLineBytes = 1024 * 1024

// fileLoader implements Loader for reading gzipped seed files from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads a gzipped seed file from the local file system.
func (l *fileLoader) Load(ctx context.Context, path string) (*Batch, error) {
	l.logger.Info().Str("file", path).Msg("loading seed file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer file.Close()

	batch, err := decode(ctx, file, path, l.logger)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("products_loaded", len(batch.Products)).
		Int("rejected", batch.Rejected).
		Msg("seed file loaded successfully")

	return batch, nil
}

// decode reads gzip-compressed JSON Lines from r. Blank lines are ignored,
// lines with invalid field values are counted as rejected, and malformed JSON
// fails the whole file.
func decode(ctx context.Context, r io.Reader, source string, logger zerolog.Logger) (*Batch, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		logger.Error().Err(err).Str("source", source).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	batch := &Batch{Source: source}

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Str("source", source).Msg("seed loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var p model.ProductCreate
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			var validationErr *model.ValidationError
			if errors.As(err, &validationErr) {
				logger.Warn().
					Str("source", source).
					Int("line", lineNo).
					Str("reason", validationErr.Message).
					Msg("rejected seed record")
				batch.Rejected++
				continue
			}
			return nil, fmt.Errorf("malformed seed record at %s:%d: %w", source, lineNo, err)
		}

		batch.Products = append(batch.Products, p)
	}

	if err := scanner.Err(); err != nil {
		logger.Error().Err(err).Str("source", source).Msg("error reading seed file")
		return nil, fmt.Errorf("error reading seed file %s: %w", source, err)
	}

	return batch, nil
}
