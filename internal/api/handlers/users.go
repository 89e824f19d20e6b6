package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/groupescape/escape-houses/internal/api/dto"
	"github.com/groupescape/escape-houses/internal/api/middleware"
	"github.com/groupescape/escape-houses/internal/database/models"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// List handles GET /api/users?role&search&limit
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	noCache(w)

	query := h.db.WithContext(r.Context()).Model(&models.User{})

	if role := r.URL.Query().Get("role"); role != "" && role != "all" {
		query = query.Where("role = ?", role)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		needle := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", needle, needle)
	}
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if limit, err := strconv.Atoi(limitParam); err == nil && limit > 0 {
			query = query.Limit(limit)
		}
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// Delete handles DELETE /api/users?id. Runs behind the admin role gate; the
// self-delete check is separate from and after role authorization, and fires
// whether or not the target row exists.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get("id")
	if idParam == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "User ID is required"})
		return
	}

	targetID, err := uuid.Parse(idParam)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	if targetID == middleware.GetUserID(r.Context()) {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "You cannot delete your own account"})
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).First(&user, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	err = h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", targetID).Delete(&models.Account{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete user"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true, Message: "User deleted"})
}
