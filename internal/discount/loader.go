package discount

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"shopkart/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped catalogue files from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based discount catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "discount-loader").Logger(),
	}
}

// Load reads a gzipped discount catalogue file. Malformed lines are skipped
// with a warning; a file full of bad lines still loads the good ones.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.Discount, error) {
	l.logger.Info().Str("file", path).Msg("loading discount catalogue file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", path, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
	}
	defer gzipReader.Close()

	records, err := scanRecords(ctx, gzipReader, l.logger.With().Str("file", path).Logger())
	if err != nil {
		return nil, fmt.Errorf("error reading catalogue file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("discounts_loaded", len(records)).
		Msg("discount catalogue file loaded")

	return records, nil
}

// scanRecords reads catalogue lines from r until EOF or context cancellation.
func scanRecords(ctx context.Context, r io.Reader, logger zerolog.Logger) ([]model.Discount, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var records []model.Discount
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		// Check context cancellation periodically
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Msg("discount catalogue loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		record, err := parseRecord(line)
		if err != nil {
			logger.Warn().
				Err(err).
				Int("line", lineNo).
				Msg("skipping malformed catalogue line")
			continue
		}
		records = append(records, *record)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
