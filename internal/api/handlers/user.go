package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/auth"
	"storefront/internal/models"
)

type AddressesRepo interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Address, error)
	Create(ctx context.Context, a models.Address) (models.Address, error)
	Update(ctx context.Context, a models.Address) (models.Address, error)
	Delete(ctx context.Context, userID, addressID int64) error
}

type UserHandler struct {
	Users     UsersRepo
	Addresses AddressesRepo
	Log       zerolog.Logger
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.GetByID(r.Context(), api.UserID(r.Context()))
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile accepts firstName/lastName/phone. Email in the payload
// is ignored: it is immutable after registration.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		api.WriteError(w, http.StatusBadRequest, "first and last name are required")
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), api.UserID(r.Context()), req.FirstName, req.LastName, req.Phone)
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "profile updated",
		"user":    user,
	})
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}
	if len(req.NewPassword) < 6 {
		api.WriteError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	userID := api.UserID(r.Context())
	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		api.WriteError(w, http.StatusBadRequest, "current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.Log.Error().Err(err).Msg("password hash failed")
		api.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), userID, hash); err != nil {
		api.WriteServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *UserHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.Addresses.ListByUser(r.Context(), api.UserID(r.Context()))
	if err != nil {
		h.Log.Error().Err(err).Msg("address list failed")
		api.WriteError(w, http.StatusInternalServerError, "failed to load addresses")
		return
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"addresses": addresses})
}

type addressReq struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"isDefault"`
}

func (a addressReq) valid() bool {
	return a.AddressLine1 != "" && a.City != "" && a.State != "" && a.ZipCode != "" && a.Country != ""
}

func (h *UserHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	var req addressReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}
	if !req.valid() {
		api.WriteError(w, http.StatusBadRequest, "address fields are incomplete")
		return
	}

	created, err := h.Addresses.Create(r.Context(), models.Address{
		UserID:       api.UserID(r.Context()),
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Country:      req.Country,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		h.Log.Error().Err(err).Msg("address create failed")
		api.WriteError(w, http.StatusInternalServerError, "failed to save address")
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "address added",
		"address": created,
	})
}

func (h *UserHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	addressID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad address id")
		return
	}
	var req addressReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}
	if !req.valid() {
		api.WriteError(w, http.StatusBadRequest, "address fields are incomplete")
		return
	}

	_, err = h.Addresses.Update(r.Context(), models.Address{
		ID:           addressID,
		UserID:       api.UserID(r.Context()),
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Country:      req.Country,
		IsDefault:    req.IsDefault,
	})
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "address updated"})
}

func (h *UserHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	addressID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad address id")
		return
	}
	if err := h.Addresses.Delete(r.Context(), api.UserID(r.Context()), addressID); err != nil {
		api.WriteServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "address deleted"})
}
