package discount

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shopkart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockLoader is a mock implementation of Loader.
type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context, path string) ([]model.Discount, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Discount), args.Error(1)
}

// recordingRepo captures upserted discounts in call order.
type recordingRepo struct {
	mu       sync.Mutex
	upserted []model.Discount
	failOn   string
}

func (r *recordingRepo) GetByCode(ctx context.Context, code string) (*model.Discount, error) {
	return nil, nil
}

func (r *recordingRepo) Upsert(ctx context.Context, d *model.Discount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != "" && d.Code == r.failOn {
		return errors.New("database error")
	}
	r.upserted = append(r.upserted, *d)
	return nil
}

func testDiscount(code string) model.Discount {
	return model.Discount{
		Code:     code,
		Type:     model.DiscountTypePercentage,
		Amount:   decimal.RequireFromString("10"),
		Active:   true,
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(time.Hour),
	}
}

func TestImporter_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("Multiple files imported in file order", func(t *testing.T) {
		loader := new(mockLoader)
		repo := &recordingRepo{}
		importer := NewImporter(repo, loader, zerolog.Nop())

		loader.On("Load", mock.Anything, "a.csv.gz").Return([]model.Discount{testDiscount("A1"), testDiscount("A2")}, nil)
		loader.On("Load", mock.Anything, "b.csv.gz").Return([]model.Discount{testDiscount("B1")}, nil)

		err := importer.Import(ctx, []string{"a.csv.gz", "b.csv.gz"})

		require.NoError(t, err)
		require.Len(t, repo.upserted, 3)
		// File order is preserved even though loads run concurrently
		assert.Equal(t, "A1", repo.upserted[0].Code)
		assert.Equal(t, "A2", repo.upserted[1].Code)
		assert.Equal(t, "B1", repo.upserted[2].Code)
		loader.AssertExpectations(t)
	})

	t.Run("No paths is a no-op", func(t *testing.T) {
		loader := new(mockLoader)
		repo := &recordingRepo{}
		importer := NewImporter(repo, loader, zerolog.Nop())

		err := importer.Import(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, repo.upserted)
		loader.AssertNotCalled(t, "Load")
	})

	t.Run("Load failure aborts import", func(t *testing.T) {
		loader := new(mockLoader)
		repo := &recordingRepo{}
		importer := NewImporter(repo, loader, zerolog.Nop())

		loader.On("Load", mock.Anything, "a.csv.gz").Return([]model.Discount{testDiscount("A1")}, nil)
		loader.On("Load", mock.Anything, "bad.csv.gz").Return(nil, errors.New("corrupt file"))

		err := importer.Import(ctx, []string{"a.csv.gz", "bad.csv.gz"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.csv.gz")
	})

	t.Run("Upsert failure aborts import", func(t *testing.T) {
		loader := new(mockLoader)
		repo := &recordingRepo{failOn: "A2"}
		importer := NewImporter(repo, loader, zerolog.Nop())

		loader.On("Load", mock.Anything, "a.csv.gz").Return([]model.Discount{testDiscount("A1"), testDiscount("A2")}, nil)

		err := importer.Import(ctx, []string{"a.csv.gz"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "A2")
	})
}
