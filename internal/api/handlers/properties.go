package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/groupescape/escape-houses/internal/api/dto"
	"github.com/groupescape/escape-houses/internal/moderation"
)

type PropertyHandler struct {
	moderation *moderation.Service
}

func NewPropertyHandler(moderation *moderation.Service) *PropertyHandler {
	return &PropertyHandler{moderation: moderation}
}

// Stats handles GET /api/properties/stats
func (h *PropertyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.moderation.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Approve handles POST /api/properties/{id}/approve
func (h *PropertyHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	if err := h.moderation.Approve(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true, Message: "Property approved successfully"})
}

// Reject handles POST /api/properties/{id}/reject
func (h *PropertyHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	if err := h.moderation.Reject(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true, Message: "Property rejected"})
}

// Unpublish handles POST /api/properties/{id}/unpublish
func (h *PropertyHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	id, ok := propertyID(w, r)
	if !ok {
		return
	}

	if err := h.moderation.Unpublish(r.Context(), id); err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true, Message: "Property unpublished"})
}

// propertyID parses the integer id path param. A non-integer id is a client
// error; an unknown-but-valid id is not (the update is a vacuous success).
func propertyID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid property ID"})
		return 0, false
	}
	return uint(id), true
}
