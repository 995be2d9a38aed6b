// Package discount loads discount catalogue files and imports them into the
// discounts table. Catalogue files are gzipped CSV lines of the form
//
//	code,type,amount,starts_at,ends_at,active
//
// with RFC 3339 timestamps. Files can live on local disk or in S3.
package discount

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shopkart/internal/model"

	"github.com/shopspring/decimal"
)

// Loader defines the interface for loading discount catalogue files.
type Loader interface {
	// Load reads a gzipped discount catalogue file and returns its records.
	Load(ctx context.Context, path string) ([]model.Discount, error)
}

// parseRecord parses a single catalogue line into a discount.
func parseRecord(line string) (*model.Discount, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 6 {
		return nil, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}

	code := strings.TrimSpace(fields[0])
	if code == "" {
		return nil, fmt.Errorf("empty discount code")
	}

	dtype := strings.TrimSpace(fields[1])
	if dtype != model.DiscountTypeFixed && dtype != model.DiscountTypePercentage {
		return nil, fmt.Errorf("unknown discount type %q", dtype)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(fields[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("negative amount %s", amount)
	}

	startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid starts_at: %w", err)
	}

	endsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid ends_at: %w", err)
	}

	active, err := strconv.ParseBool(strings.TrimSpace(fields[5]))
	if err != nil {
		return nil, fmt.Errorf("invalid active flag: %w", err)
	}

	return &model.Discount{
		Code:     code,
		Type:     dtype,
		Amount:   amount,
		Active:   active,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	}, nil
}
