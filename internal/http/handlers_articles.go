package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bistronome/resto-ui-api/internal/data"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
	"github.com/bistronome/resto-ui-api/internal/service"
)

// ArticleHandlers provides HTTP handlers for menu article operations.
type ArticleHandlers struct {
	Svc *service.ArticleService
}

// Create handles POST /api/articles.
func (h *ArticleHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateArticleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	article, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		writeArticleErr(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, article)
}

// Get handles GET /api/articles/{id}.
func (h *ArticleHandlers) Get(w http.ResponseWriter, r *http.Request) {
	article, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeArticleErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, article)
}

// List handles GET /api/articles.
func (h *ArticleHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := parseArticleListOptions(r)
	articles, total, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		writeArticleErr(w, err)
		return
	}
	WritePage(w, articles, opts.Limit, opts.Offset, total)
}

// Update handles PUT /api/articles/{id}.
func (h *ArticleHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateArticleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	article, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeArticleErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, article)
}

// Delete handles DELETE /api/articles/{id}.
func (h *ArticleHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Svc.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeArticleErr(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "article_not_found",
			Err:     errors.New("article not found"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// parseArticleListOptions reads paging, filters, and sorting from the query string.
func parseArticleListOptions(r *http.Request) model.ArticlesListOptions {
	q := r.URL.Query()
	opts := model.ArticlesListOptions{
		Limit:  parseIntParam(q.Get("limit"), 20),
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
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		opts.Category = &v
	}
	if f, err := strconv.ParseFloat(q.Get("price_min"), 64); err == nil {
		opts.PriceMin = &f
	}
	if f, err := strconv.ParseFloat(q.Get("price_max"), 64); err == nil {
		opts.PriceMax = &f
	}
	if b, err := strconv.ParseBool(q.Get("in_stock")); err == nil {
		opts.InStock = &b
	}
	return opts
}

func writeArticleErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrArticleNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "article_not_found", Err: err})
	case errors.Is(err, data.ErrArticleNameExists):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "article_name_exists", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
	}
}
