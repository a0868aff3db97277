package products

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

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

// MountRoutes registers product and product-unit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	r.Get("/product-units", h.ListProductUnits)
}

type mutateProductRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Category *int64  `json:"category"`
	Units    []int64 `json:"units" validate:"required,min=1"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, _, err := h.service.List(r.Context(), queryFilters(r))
	if err != nil {
		h.logger.Error("list products failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Product{}
	}
	httpx.List(w, items)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrInvalidID)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeMutation(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create product failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, product)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrInvalidID)
		return
	}
	input, err := h.decodeMutation(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.logger.Error("update product failed", "error", err, "id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, product)
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

func (h *Handler) ListProductUnits(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListProductUnits(r.Context(), queryFilters(r))
	if err != nil {
		h.logger.Error("list product units failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if views == nil {
		views = []ProductUnitView{}
	}
	httpx.List(w, views)
}

func (h *Handler) decodeMutation(r *http.Request) (MutateProductInput, error) {
	var req mutateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		return MutateProductInput{}, shared.NewValidationError("", "invalid JSON body")
	}
	if err := h.validate.Struct(req); err != nil {
		return MutateProductInput{}, httpx.FirstValidationError(err)
	}
	return MutateProductInput{
		Name:       req.Name,
		CategoryID: req.Category,
		UnitIDs:    req.Units,
	}, nil
}

func queryFilters(r *http.Request) shared.ListFilters {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 50
	}
	filters := shared.ListFilters{
		Page:   page,
		Limit:  limit,
		Search: r.URL.Query().Get("search"),
	}
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
	return filters
}
