package handlers

import (
	"net/http"

	"github.com/groupescape/escape-houses/internal/api/dto"
	"github.com/groupescape/escape-houses/internal/reporting"
)

type TransactionHandler struct {
	transactions *reporting.TransactionService
}

func NewTransactionHandler(transactions *reporting.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// List handles GET /api/transactions?status
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	noCache(w)

	transactions, err := h.transactions.ListTransactions(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": transactions})
}

// Stats handles GET /api/transactions/stats
func (h *TransactionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	noCache(w)

	stats, err := h.transactions.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
