package stock

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stockpos/stockpos/internal/shared"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memoryRepo struct {
	batches      map[int64]*Batch
	productUnits map[int64]bool
	nextID       int64
	now          time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		batches:      make(map[int64]*Batch),
		productUnits: map[int64]bool{1: true},
		now:          time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *memoryRepo) List(ctx context.Context, filters shared.ListFilters) ([]Batch, int, error) {
	var out []Batch
	for _, b := range r.batches {
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Batch, error) {
	if b, ok := r.batches[id]; ok {
		return *b, nil
	}
	return Batch{}, shared.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, batch Batch) (Batch, error) {
	r.nextID++
	r.now = r.now.Add(time.Minute)
	batch.ID = r.nextID
	batch.CreatedAt = r.now
	batch.UpdatedAt = r.now
	stored := batch
	r.batches[batch.ID] = &stored
	return batch, nil
}

func (r *memoryRepo) UpdatePrices(ctx context.Context, id int64, costPrice, sellingPrice, profit, totalProfit decimal.Decimal) (Batch, error) {
	b, ok := r.batches[id]
	if !ok {
		return Batch{}, shared.ErrNotFound
	}
	b.CostPrice = costPrice
	b.SellingPrice = sellingPrice
	b.Profit = profit
	b.TotalProfit = totalProfit
	return *b, nil
}

func (r *memoryRepo) SoftDelete(ctx context.Context, id int64) error {
	if _, ok := r.batches[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.batches, id)
	return nil
}

func (r *memoryRepo) CurrentBatch(ctx context.Context, productUnitID int64) (Batch, error) {
	var candidates []*Batch
	for _, b := range r.batches {
		if b.ProductUnitID == productUnitID && b.Quantity > 0 {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return Batch{}, ErrNoCurrentBatch
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return *candidates[0], nil
}

func (r *memoryRepo) ProductUnitExists(ctx context.Context, productUnitID int64) (bool, error) {
	return r.productUnits[productUnitID], nil
}

type stubGuard struct {
	blocked bool
	armed   int
	armErr  error
}

func (g *stubGuard) Check(ctx context.Context, input CreateBatchInput) error {
	if g.blocked {
		return ErrDuplicateWindow
	}
	return nil
}

func (g *stubGuard) Arm(ctx context.Context, input CreateBatchInput) error {
	g.armed++
	return g.armErr
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateBatchDerivedValues(t *testing.T) {
	repo := newMemoryRepo()
	guard := &stubGuard{}
	svc := NewService(repo, guard, testLogger())

	batch, err := svc.Create(context.Background(), CreateBatchInput{
		ProductUnitID: 1,
		Quantity:      5,
		CostPrice:     dec("10.00"),
		SellingPrice:  dec("15.00"),
	})
	require.NoError(t, err)
	require.True(t, batch.Profit.Equal(dec("5.00")), "profit = %s", batch.Profit)
	require.True(t, batch.TotalProfit.Equal(dec("25.00")), "total_profit = %s", batch.TotalProfit)
	require.Equal(t, 1, guard.armed)
}

func TestCreateBatchPriceOrdering(t *testing.T) {
	svc := NewService(newMemoryRepo(), &stubGuard{}, testLogger())

	_, err := svc.Create(context.Background(), CreateBatchInput{
		ProductUnitID: 1,
		Quantity:      3,
		CostPrice:     dec("12.00"),
		SellingPrice:  dec("11.99"),
	})
	require.ErrorIs(t, err, ErrPriceOrdering)
}

func TestCreateBatchQuantityAtLeastOne(t *testing.T) {
	svc := NewService(newMemoryRepo(), &stubGuard{}, testLogger())

	_, err := svc.Create(context.Background(), CreateBatchInput{
		ProductUnitID: 1,
		Quantity:      0,
		CostPrice:     dec("1.00"),
		SellingPrice:  dec("2.00"),
	})
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "quantity", vErr.Field)
}

func TestCreateBatchUnknownProductUnit(t *testing.T) {
	svc := NewService(newMemoryRepo(), &stubGuard{}, testLogger())

	_, err := svc.Create(context.Background(), CreateBatchInput{
		ProductUnitID: 99,
		Quantity:      1,
		CostPrice:     dec("1.00"),
		SellingPrice:  dec("2.00"),
	})
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "product_unit", vErr.Field)
}

func TestCreateBatchDuplicateBlocked(t *testing.T) {
	repo := newMemoryRepo()
	guard := &stubGuard{blocked: true}
	svc := NewService(repo, guard, testLogger())

	_, err := svc.Create(context.Background(), CreateBatchInput{
		ProductUnitID: 1,
		Quantity:      2,
		CostPrice:     dec("4.00"),
		SellingPrice:  dec("5.00"),
	})
	require.ErrorIs(t, err, ErrDuplicateWindow)
	require.Empty(t, repo.batches)
	require.Zero(t, guard.armed)
}

func TestCreateBatchSurvivesGuardArmFailure(t *testing.T) {
	repo := newMemoryRepo()
	guard := &stubGuard{armErr: errors.New("redis down")}
	svc := NewService(repo, guard, testLogger())

	batch, err := svc.Create(context.Background(), CreateBatchInput{
		ProductUnitID: 1,
		Quantity:      3,
		CostPrice:     dec("4.00"),
		SellingPrice:  dec("6.00"),
	})
	require.NoError(t, err)
	require.Len(t, repo.batches, 1)
	require.Equal(t, 1, guard.armed)
	require.True(t, batch.TotalProfit.Equal(dec("6.00")))
}

func TestCurrentBatchFIFO(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, &stubGuard{}, testLogger())
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateBatchInput{ProductUnitID: 1, Quantity: 2, CostPrice: dec("1.00"), SellingPrice: dec("2.00")})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateBatchInput{ProductUnitID: 1, Quantity: 7, CostPrice: dec("1.50"), SellingPrice: dec("2.50")})
	require.NoError(t, err)

	current, err := svc.CurrentBatch(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, first.ID, current.ID)

	// Exhaust the first batch; selection must move to the next oldest.
	repo.batches[first.ID].Quantity = 0
	current, err = svc.CurrentBatch(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, second.ID, current.ID)

	repo.batches[second.ID].Quantity = 0
	_, err = svc.CurrentBatch(ctx, 1)
	require.ErrorIs(t, err, ErrNoCurrentBatch)
}

func TestProductUnitStock(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, &stubGuard{}, testLogger())
	ctx := context.Background()

	info, err := svc.ProductUnitStock(ctx, 1)
	require.NoError(t, err)
	require.True(t, info.OutOfStock)

	_, err = svc.Create(ctx, CreateBatchInput{ProductUnitID: 1, Quantity: 4, CostPrice: dec("3.00"), SellingPrice: dec("4.50")})
	require.NoError(t, err)

	info, err = svc.ProductUnitStock(ctx, 1)
	require.NoError(t, err)
	require.False(t, info.OutOfStock)
	require.Equal(t, int64(4), info.QuantityLeft)
	require.True(t, info.SellingPrice.Equal(dec("4.50")))
}

func TestUpdatePricesRecomputesDerived(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, &stubGuard{}, testLogger())
	ctx := context.Background()

	batch, err := svc.Create(ctx, CreateBatchInput{ProductUnitID: 1, Quantity: 10, CostPrice: dec("2.00"), SellingPrice: dec("3.00")})
	require.NoError(t, err)

	updated, err := svc.UpdatePrices(ctx, batch.ID, dec("2.50"), dec("4.00"))
	require.NoError(t, err)
	require.True(t, updated.Profit.Equal(dec("1.50")))
	require.True(t, updated.TotalProfit.Equal(dec("15.00")))
	require.Equal(t, int64(10), updated.Quantity)

	_, err = svc.UpdatePrices(ctx, batch.ID, dec("5.00"), dec("4.00"))
	require.ErrorIs(t, err, ErrPriceOrdering)
}
