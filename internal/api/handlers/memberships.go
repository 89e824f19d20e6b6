package handlers

import (
	"net/http"

	"github.com/groupescape/escape-houses/internal/api/dto"
	"github.com/groupescape/escape-houses/internal/reporting"
)

type MembershipHandler struct {
	memberships *reporting.MembershipService
}

func NewMembershipHandler(memberships *reporting.MembershipService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships}
}

// List handles GET /api/memberships?plan&payment&search
func (h *MembershipHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := reporting.MemberFilter{
		Plan:    r.URL.Query().Get("plan"),
		Payment: r.URL.Query().Get("payment"),
		Search:  r.URL.Query().Get("search"),
	}

	members, err := h.memberships.ListMembers(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"memberships": members})
}

// Stats handles GET /api/memberships/stats
func (h *MembershipHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.memberships.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
