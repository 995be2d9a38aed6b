package discount

import (
	"context"
	"fmt"
	"sync"

	"shopkart/internal/model"
	"shopkart/internal/repository"

	"github.com/rs/zerolog"
)

// Importer loads catalogue files and upserts their discounts into the store.
type Importer struct {
	repo   repository.DiscountRepository
	loader Loader
	logger zerolog.Logger
}

// NewImporter creates a new discount catalogue importer.
func NewImporter(repo repository.DiscountRepository, loader Loader, logger zerolog.Logger) *Importer {
	return &Importer{
		repo:   repo,
		loader: loader,
		logger: logger.With().Str("component", "discount-importer").Logger(),
	}
}

// Import loads all catalogue files concurrently and upserts every record.
// A later file wins when two files define the same code.
func (i *Importer) Import(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	i.logger.Info().Int("file_count", len(paths)).Msg("importing discount catalogues")

	type loadResult struct {
		index   int
		records []model.Discount
		err     error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for idx, path := range paths {
		wg.Add(1)
		go func(index int, p string) {
			defer wg.Done()

			records, err := i.loader.Load(ctx, p)
			resultChan <- loadResult{
				index:   index,
				records: records,
				err:     err,
			}
		}(idx, path)
	}

	wg.Wait()
	close(resultChan)

	// Collect results in file order so later files win on duplicate codes
	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	imported := 0
	for idx, result := range results {
		if result.err != nil {
			i.logger.Error().
				Err(result.err).
				Str("file", paths[idx]).
				Msg("failed to load discount catalogue")
			return fmt.Errorf("failed to load discount catalogue %s: %w", paths[idx], result.err)
		}

		for j := range result.records {
			if err := i.repo.Upsert(ctx, &result.records[j]); err != nil {
				return fmt.Errorf("failed to import discount %s: %w", result.records[j].Code, err)
			}
			imported++
		}
	}

	i.logger.Info().Int("imported", imported).Msg("discount catalogues imported")

	return nil
}
