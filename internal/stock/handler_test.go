package stock

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/stockpos/stockpos/internal/platform/httpx"
)

func newBatchRouter(t *testing.T) (http.Handler, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	svc := NewService(repo, &stubGuard{}, testLogger())
	h := NewHandler(testLogger(), svc)
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r, repo
}

func patchBatch(t *testing.T, router http.Handler, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/product-batches/"+id, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// A partial or empty price update must be rejected, not decoded into zero
// prices that wipe the batch's ledger values.
func TestUpdateBatchRequiresBothPrices(t *testing.T) {
	router, repo := newBatchRouter(t)
	ctx := context.Background()

	seeded, err := repo.Create(ctx, Batch{
		ProductUnitID: 1,
		Quantity:      5,
		CostPrice:     dec("10.00"),
		SellingPrice:  dec("15.00"),
		Profit:        dec("5.00"),
		TotalProfit:   dec("25.00"),
	})
	require.NoError(t, err)

	for _, body := range []string{
		`{}`,
		`{"cost_price": "2.00"}`,
		`{"selling_price": "3.00"}`,
	} {
		rec := patchBatch(t, router, "1", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)

		var env httpx.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.Equal(t, "error", env.Status)
		require.Contains(t, env.Message, "this field is required")
	}

	// Every rejected request leaves the batch untouched.
	stored, err := repo.Get(ctx, seeded.ID)
	require.NoError(t, err)
	require.True(t, stored.CostPrice.Equal(dec("10.00")))
	require.True(t, stored.SellingPrice.Equal(dec("15.00")))
	require.True(t, stored.TotalProfit.Equal(dec("25.00")))
}

func TestUpdateBatchFullBody(t *testing.T) {
	router, repo := newBatchRouter(t)
	ctx := context.Background()

	seeded, err := repo.Create(ctx, Batch{
		ProductUnitID: 1,
		Quantity:      4,
		CostPrice:     dec("10.00"),
		SellingPrice:  dec("15.00"),
		Profit:        dec("5.00"),
		TotalProfit:   dec("20.00"),
	})
	require.NoError(t, err)

	rec := patchBatch(t, router, "1", `{"cost_price": "11.00", "selling_price": "18.00"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := repo.Get(ctx, seeded.ID)
	require.NoError(t, err)
	require.True(t, stored.CostPrice.Equal(dec("11.00")))
	require.True(t, stored.SellingPrice.Equal(dec("18.00")))
	require.True(t, stored.Profit.Equal(dec("7.00")))
	require.True(t, stored.TotalProfit.Equal(dec("28.00")))
}
