package httpx

import (
	"net/http"

	"github.com/bistronome/resto-ui-api/internal/service"
)

// DashboardHandlers provides HTTP handlers for the manager dashboard.
type DashboardHandlers struct {
	Svc *service.StatsService
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Dashboard(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
