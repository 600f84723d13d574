package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bistronome/resto-ui-api/internal/data"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
	"github.com/bistronome/resto-ui-api/internal/service"
)

// OrderHandlers provides HTTP handlers for order operations.
type OrderHandlers struct {
	Svc *service.OrderService
}

// Create handles POST /api/orders.
func (h *OrderHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	details, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, details)
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandlers) Get(w http.ResponseWriter, r *http.Request) {
	details, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, details)
}

// List handles GET /api/orders.
func (h *OrderHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := parseOrderListOptions(r)
	orders, total, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	WritePage(w, orders, opts.Limit, opts.Offset, total)
}

// Update handles PUT /api/orders/{id}.
func (h *OrderHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateOrderRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	details, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, details)
}

// Delete handles DELETE /api/orders/{id}.
func (h *OrderHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Svc.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "order_not_found",
			Err:     errors.New("order not found"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// parseOrderListOptions reads paging, filters, and sorting from the query string.
func parseOrderListOptions(r *http.Request) model.OrdersListOptions {
	q := r.URL.Query()
	opts := model.OrdersListOptions{
		Limit:  parseIntParam(q.Get("limit"), 10),
		Offset: parseIntParam(q.Get("offset"), 0),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
	}
	if page := parseIntParam(q.Get("page"), 0); page > 1 {
		opts.Offset = (page - 1) * opts.Limit
	}
	if v := strings.TrimSpace(q.Get("q")); v != "" {
		opts.Q = &v
	}
	if v := q.Get("status"); v != "" {
		if status, ok := model.ParseOrderStatus(v); ok {
			opts.Status = &status
		}
	}
	if v := strings.TrimSpace(q.Get("table")); v != "" {
		opts.TableNumber = &v
	}
	if t, ok := parseTimeParam(q.Get("from")); ok {
		opts.DateFrom = &t
	}
	if t, ok := parseTimeParam(q.Get("to")); ok {
		opts.DateTo = &t
	}
	return opts
}

func writeOrderErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrOrderNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "order_not_found", Err: err})
	case errors.Is(err, service.ErrUnknownArticle):
		WriteError(w, ErrorParams{Code: http.StatusUnprocessableEntity, ErrCode: "unknown_article", Err: err})
	case errors.Is(err, service.ErrArticleOutOfStock):
		WriteError(w, ErrorParams{Code: http.StatusUnprocessableEntity, ErrCode: "article_out_of_stock", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
	}
}

// parseIntParam parses a non-negative integer query param with a fallback.
func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// parseTimeParam accepts RFC3339 or plain dates (2006-01-02).
func parseTimeParam(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
