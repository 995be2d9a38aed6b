package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount types.
const (
	DiscountTypeFixed      = "fixed"
	DiscountTypePercentage = "percentage"
)

// Discount is a promotional code. A discount applies only while Active and
// inside its [StartsAt, EndsAt] window.
type Discount struct {
	Code      string          `json:"code" db:"code"`
	Type      string          `json:"type" db:"type"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Active    bool            `json:"active" db:"active"`
	StartsAt  time.Time       `json:"startsAt" db:"starts_at"`
	EndsAt    time.Time       `json:"endsAt" db:"ends_at"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// ValidAt reports whether the discount can be applied at the given time.
func (d *Discount) ValidAt(now time.Time) bool {
	return d.Active && !now.Before(d.StartsAt) && !now.After(d.EndsAt)
}

// ApplyTo returns the subtotal after applying the discount, floored at zero.
func (d *Discount) ApplyTo(subtotal decimal.Decimal) decimal.Decimal {
	var adjusted decimal.Decimal
	switch d.Type {
	case DiscountTypeFixed:
		adjusted = subtotal.Sub(d.Amount)
	case DiscountTypePercentage:
		factor := decimal.NewFromInt(1).Sub(d.Amount.Div(decimal.NewFromInt(100)))
		adjusted = subtotal.Mul(factor)
	default:
		return subtotal
	}
	if adjusted.IsNegative() {
		return decimal.Zero
	}
	return adjusted.Round(2)
}

// QuoteResponse is the result of quoting a discount against a cart subtotal.
// Quoting persists nothing; the discount is only committed at checkout.
type QuoteResponse struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}
