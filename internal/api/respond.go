package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/repo"
	"storefront/internal/service"
)

// Every error body is {"message": ...}; the storefront client surfaces
// exactly that string.
type errorResp struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorResp{Message: message})
}

// WriteServiceError maps domain errors onto HTTP statuses while keeping
// the message wording user-facing.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repo.ErrForbidden):
		WriteError(w, http.StatusForbidden, "resource does not belong to user")
	case errors.Is(err, repo.ErrDuplicateEmail):
		WriteError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, repo.ErrOutOfStock):
		WriteError(w, http.StatusBadRequest, "product not available in requested quantity")
	case errors.Is(err, repo.ErrEmptyCart):
		WriteError(w, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, repo.ErrNotCancellable):
		WriteError(w, http.StatusBadRequest, "order cannot be cancelled in its current status")
	case errors.Is(err, service.ErrInvalidQuantity):
		WriteError(w, http.StatusBadRequest, "invalid quantity")
	default:
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
