package sales

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

// MountRoutes registers sale-transaction routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
	})
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

	txs, _, err := h.service.List(r.Context(), shared.ListFilters{Page: page, Limit: limit})
	if err != nil {
		h.logger.Error("list sales failed", "error", err)
		httpx.RespondError(w, err)
		return
	}

	responses := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		responses = append(responses, NewTransactionResponse(t))
	}
	httpx.List(w, responses)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrInvalidID)
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, NewTransactionResponse(t))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSaleTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.FirstValidationError(err))
		return
	}

	input := CreateTransactionInput{}
	if req.PercentageDiscount != nil {
		input.PercentageDiscount = *req.PercentageDiscount
	}
	for _, item := range req.Sales {
		input.Lines = append(input.Lines, CreateLineInput{
			ProductUnitID: item.ProductUnit,
			Quantity:      item.Quantity,
		})
	}

	t, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.logger.Error("create sale failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, NewTransactionResponse(t))
}
