package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockpos/stockpos/internal/masterdata/categories"
	"github.com/stockpos/stockpos/internal/masterdata/products"
	"github.com/stockpos/stockpos/internal/masterdata/units"
	"github.com/stockpos/stockpos/internal/sales"
	"github.com/stockpos/stockpos/internal/stock"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	UnitHandler     *units.Handler
	CategoryHandler *categories.Handler
	ProductHandler  *products.Handler
	BatchHandler    *stock.Handler
	SalesHandler    *sales.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		params.UnitHandler.MountRoutes(r)
		params.CategoryHandler.MountRoutes(r)
		params.ProductHandler.MountRoutes(r)
		params.BatchHandler.MountRoutes(r)
		params.SalesHandler.MountRoutes(r)
	})

	return r
}
