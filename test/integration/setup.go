package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shopkart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			price DECIMAL(10,2) NOT NULL CHECK (price >= 0),
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			active BOOLEAN NOT NULL DEFAULT TRUE,
			category TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS carts (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
			product_id TEXT NOT NULL REFERENCES products(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			price_at_add DECIMAL(10,2) NOT NULL CHECK (price_at_add >= 0),
			position BIGSERIAL,
			UNIQUE (cart_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			total_amount DECIMAL(10,2) NOT NULL CHECK (total_amount >= 0),
			discount_code TEXT,
			street TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			zip_code TEXT NOT NULL,
			country TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL DEFAULT 'pending',
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id TEXT NOT NULL REFERENCES products(id),
			product_name TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price DECIMAL(10,2) NOT NULL CHECK (unit_price >= 0),
			subtotal DECIMAL(10,2) NOT NULL CHECK (subtotal >= 0),
			position BIGSERIAL
		);

		CREATE TABLE IF NOT EXISTS discounts (
			code TEXT PRIMARY KEY,
			type TEXT NOT NULL CHECK (type IN ('fixed', 'percentage')),
			amount DECIMAL(10,2) NOT NULL CHECK (amount >= 0),
			active BOOLEAN NOT NULL DEFAULT TRUE,
			starts_at TIMESTAMPTZ NOT NULL,
			ends_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProducts inserts test product data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id     string
		name   string
		price  string
		stock  int
		active bool
	}{
		{"P001", "Test Product 1", "10.00", 5, true},
		{"P002", "Test Product 2", "20.00", 3, true},
		{"P003", "Test Product 3", "30.00", 1, true},
		{"P004", "Test Product 4", "40.00", 0, true},
		{"P005", "Test Product 5", "50.00", 10, false},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			"INSERT INTO products (id, name, price, stock, active, category) VALUES ($1, $2, $3, $4, $5, 'Test')",
			p.id, p.name, p.price, p.stock, p.active,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// SeedDiscounts inserts test discount data into the database.
func SeedDiscounts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	now := time.Now()

	discounts := []model.Discount{
		{
			Code:     "SAVE10",
			Type:     model.DiscountTypePercentage,
			Amount:   decimal.RequireFromString("10"),
			Active:   true,
			StartsAt: now.Add(-time.Hour),
			EndsAt:   now.Add(24 * time.Hour),
		},
		{
			Code:     "EXPIRED",
			Type:     model.DiscountTypeFixed,
			Amount:   decimal.RequireFromString("5.00"),
			Active:   true,
			StartsAt: now.Add(-48 * time.Hour),
			EndsAt:   now.Add(-24 * time.Hour),
		},
	}

	for _, d := range discounts {
		_, err := pool.Exec(ctx,
			"INSERT INTO discounts (code, type, amount, active, starts_at, ends_at) VALUES ($1, $2, $3, $4, $5, $6)",
			d.Code, d.Type, d.Amount, d.Active, d.StartsAt, d.EndsAt,
		)
		if err != nil {
			t.Fatalf("failed to seed discount %s: %v", d.Code, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "cart_items", "carts", "discounts", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
