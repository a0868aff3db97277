package stock

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/stockpos/stockpos/internal/platform/httpx"
	"github.com/stockpos/stockpos/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: httpx.NewValidator()}
}

// MountRoutes registers batch routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/product-batches", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

type createBatchRequest struct {
	ProductUnit  int64           `json:"product_unit" validate:"required"`
	Quantity     int64           `json:"quantity" validate:"required,min=1"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

type updateBatchRequest struct {
	CostPrice    *decimal.Decimal `json:"cost_price" validate:"required"`
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"required"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}
	filters := shared.ListFilters{Page: page, Limit: limit}
	if raw := r.URL.Query().Get("product"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.ProductID = &id
		}
	}
	if raw := r.URL.Query().Get("unit"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.UnitID = &id
		}
	}

	batches, _, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list batches failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if batches == nil {
		batches = []Batch{}
	}
	httpx.List(w, batches)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrInvalidID)
		return
	}
	batch, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, batch)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.FirstValidationError(err))
		return
	}
	batch, err := h.service.Create(r.Context(), CreateBatchInput{
		ProductUnitID: req.ProductUnit,
		Quantity:      req.Quantity,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
	})
	if err != nil {
		h.logger.Error("create batch failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, batch)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrInvalidID)
		return
	}
	var req updateBatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.FirstValidationError(err))
		return
	}
	batch, err := h.service.UpdatePrices(r.Context(), id, *req.CostPrice, *req.SellingPrice)
	if err != nil {
		h.logger.Error("update batch failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, batch)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrInvalidID)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, nil)
}
