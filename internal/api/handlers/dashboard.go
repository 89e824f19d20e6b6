package handlers

import (
	"net/http"

	"github.com/groupescape/escape-houses/internal/api/dto"
	"github.com/groupescape/escape-houses/internal/reporting"
)

type DashboardHandler struct {
	dashboard *reporting.DashboardService
}

func NewDashboardHandler(dashboard *reporting.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /api/admin/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
