package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bistronome/resto-ui-api/internal/data"
	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
	"github.com/bistronome/resto-ui-api/internal/service"
)

// UserHandlers provides HTTP handlers for staff account administration.
type UserHandlers struct {
	Svc *service.UserService
}

// Create handles POST /api/users.
func (h *UserHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	user, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		writeUserErr(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, user)
}

// Get handles GET /api/users/{id}.
func (h *UserHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeUserErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// List handles GET /api/users.
func (h *UserHandlers) List(w http.ResponseWriter, r *http.Request) {
	opts := parseUserListOptions(r)
	users, total, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		writeUserErr(w, err)
		return
	}
	WritePage(w, users, opts.Limit, opts.Offset, total)
}

// Update handles PUT /api/users/{id}.
func (h *UserHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	user, err := h.Svc.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeUserErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id}. Owners cannot delete themselves.
func (h *UserHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if session := GetSessionFromContext(r.Context()); session.Principal != nil && session.Principal.ID == id {
		WriteError(w, ErrorParams{
			Code:    http.StatusConflict,
			ErrCode: "cannot_delete_self",
			Err:     errors.New("cannot delete the signed-in account"),
		})
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		writeUserErr(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "user_not_found",
			Err:     errors.New("user not found"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// parseUserListOptions reads paging, filters, and sorting from the query string.
func parseUserListOptions(r *http.Request) model.UsersListOptions {
	q := r.URL.Query()
	opts := model.UsersListOptions{
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
	if v := q.Get("role"); v != "" {
		role := domainauth.Role(strings.ToLower(strings.TrimSpace(v)))
		if role.Valid() {
			opts.Role = &role
		}
	}
	return opts
}

func writeUserErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrUserNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "user_not_found", Err: err})
	case errors.Is(err, data.ErrEmailExists):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_exists", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
	}
}
