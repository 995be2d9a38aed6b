package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalogue. Stock is mutated only through
// the conditional decrement in the repository, never by read-modify-write.
type Product struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Stock     int             `json:"stock" db:"stock"`
	Active    bool            `json:"active" db:"active"`
	Category  string          `json:"category" db:"category"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}
