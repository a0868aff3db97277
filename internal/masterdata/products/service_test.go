package products

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stockpos/stockpos/internal/shared"
)

type memPairing struct {
	id        int64
	productID int64
	unitID    int64
	archived  bool
}

type memoryRepo struct {
	products map[int64]*Product
	pairings []*memPairing
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[int64]*Product)}
}

func (r *memoryRepo) activePairings(productID int64) []*memPairing {
	var out []*memPairing
	for _, pu := range r.pairings {
		if pu.productID == productID {
			out = append(out, pu)
		}
	}
	return out
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	var out []Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Product, error) {
	if p, ok := r.products[id]; ok {
		return *p, nil
	}
	return Product{}, shared.ErrNotFound
}

func (r *memoryRepo) SoftDelete(ctx context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memoryRepo) ListProductUnits(ctx context.Context, filters shared.ListFilters) ([]ProductUnitRow, error) {
	var out []ProductUnitRow
	for _, pu := range r.pairings {
		p, ok := r.products[pu.productID]
		if !ok {
			continue
		}
		out = append(out, ProductUnitRow{
			ID:        pu.id,
			ProductID: pu.productID,
			UnitID:    pu.unitID,
			Product:   p.Name,
			Unit:      "unit",
			Archived:  pu.archived,
		})
	}
	return out, nil
}

func (r *memoryRepo) InsertProduct(ctx context.Context, name string, categoryID *int64) (Product, error) {
	r.nextID++
	p := &Product{ID: r.nextID, Name: name, CategoryID: categoryID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.products[p.ID] = p
	return *p, nil
}

func (r *memoryRepo) UpdateProduct(ctx context.Context, id int64, name string, categoryID *int64) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	p.Name = name
	p.CategoryID = categoryID
	return *p, nil
}

func (r *memoryRepo) UpsertProductUnit(ctx context.Context, productID, unitID int64) error {
	for _, pu := range r.pairings {
		if pu.productID == productID && pu.unitID == unitID {
			pu.archived = false
			return nil
		}
	}
	r.nextID++
	r.pairings = append(r.pairings, &memPairing{id: r.nextID, productID: productID, unitID: unitID})
	return nil
}

func (r *memoryRepo) ArchiveUnitsNotIn(ctx context.Context, productID int64, unitIDs []int64) error {
	keep := make(map[int64]struct{}, len(unitIDs))
	for _, id := range unitIDs {
		keep[id] = struct{}{}
	}
	for _, pu := range r.pairings {
		if pu.productID != productID {
			continue
		}
		if _, ok := keep[pu.unitID]; !ok {
			pu.archived = true
		}
	}
	return nil
}

type stubStock struct {
	byID map[int64]StockInfo
}

func (s stubStock) ProductUnitStock(ctx context.Context, productUnitID int64) (StockInfo, error) {
	if info, ok := s.byID[productUnitID]; ok {
		return info, nil
	}
	return StockInfo{OutOfStock: true}, nil
}

func TestCreateProductNormalizesNameAndPairsUnits(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, stubStock{})

	created, err := svc.Create(context.Background(), MutateProductInput{
		Name:    "  Basmati RICE ",
		UnitIDs: []int64{1, 2},
	})
	require.NoError(t, err)
	require.Equal(t, "basmati rice", created.Name)

	pairings := repo.activePairings(created.ID)
	require.Len(t, pairings, 2)
	for _, pu := range pairings {
		require.False(t, pu.archived)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), stubStock{})
	ctx := context.Background()

	_, err := svc.Create(ctx, MutateProductInput{Name: "rice"})
	require.EqualError(t, err, "units: this field is required")

	_, err = svc.Create(ctx, MutateProductInput{Name: "   ", UnitIDs: []int64{1}})
	require.EqualError(t, err, "name: this field is required")

	_, err = svc.Create(ctx, MutateProductInput{Name: "rice", UnitIDs: []int64{1, 1}})
	require.EqualError(t, err, "units: duplicate unit in list")

	bad := int64(-3)
	_, err = svc.Create(ctx, MutateProductInput{Name: "rice", UnitIDs: []int64{1}, CategoryID: &bad})
	require.EqualError(t, err, "category: category does not exist")
}

func TestUpdateProductSyncsUnitSet(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, stubStock{})
	ctx := context.Background()

	created, err := svc.Create(ctx, MutateProductInput{Name: "rice", UnitIDs: []int64{1, 2}})
	require.NoError(t, err)

	// Drop unit 2, add unit 3.
	_, err = svc.Update(ctx, created.ID, MutateProductInput{Name: "rice", UnitIDs: []int64{1, 3}})
	require.NoError(t, err)

	byUnit := make(map[int64]bool)
	for _, pu := range repo.activePairings(created.ID) {
		byUnit[pu.unitID] = pu.archived
	}
	require.Equal(t, map[int64]bool{1: false, 2: true, 3: false}, byUnit)

	// Re-adding unit 2 revives the archived pairing instead of duplicating it.
	_, err = svc.Update(ctx, created.ID, MutateProductInput{Name: "rice", UnitIDs: []int64{1, 2, 3}})
	require.NoError(t, err)
	require.Len(t, repo.activePairings(created.ID), 3)
	for _, pu := range repo.activePairings(created.ID) {
		require.False(t, pu.archived, "unit %d still archived", pu.unitID)
	}
}

func TestListProductUnitsStockFields(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, stubStock{})
	ctx := context.Background()

	created, err := svc.Create(ctx, MutateProductInput{Name: "rice", UnitIDs: []int64{10, 11}})
	require.NoError(t, err)

	pairings := repo.activePairings(created.ID)
	require.Len(t, pairings, 2)

	cost := decimal.RequireFromString("10.00")
	sell := decimal.RequireFromString("15.00")
	svc = NewService(repo, stubStock{byID: map[int64]StockInfo{
		pairings[0].id: {CostPrice: cost, SellingPrice: sell, QuantityLeft: 7},
	}})

	views, err := svc.ListProductUnits(ctx, shared.ListFilters{})
	require.NoError(t, err)
	require.Len(t, views, 2)

	inStock := views[0]
	require.False(t, inStock.OutOfStock)
	require.NotNil(t, inStock.QuantityLeft)
	require.Equal(t, int64(7), *inStock.QuantityLeft)
	require.True(t, inStock.SellingPrice.Equal(sell))
	require.True(t, inStock.CostPrice.Equal(cost))

	outOfStock := views[1]
	require.True(t, outOfStock.OutOfStock)
	require.Nil(t, outOfStock.CostPrice)
	require.Nil(t, outOfStock.SellingPrice)
	require.Nil(t, outOfStock.QuantityLeft)
}
