package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"storefront/internal/api"
	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/repo"
)

type UsersRepo interface {
	Create(ctx context.Context, email, passwordHash, firstName, lastName string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, phone string) (models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

type ResetTokens interface {
	Issue(ctx context.Context, userID int64) (string, error)
	Redeem(ctx context.Context, token string) (int64, error)
}

type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

type AuthHandler struct {
	Users  UsersRepo
	Tokens TokenIssuer
	Resets ResetTokens
	Log    zerolog.Logger
}

type authResp struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// same message for unknown email and wrong password
		api.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		h.Log.Error().Err(err).Msg("token issue failed")
		api.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, authResp{Token: token, User: user})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		api.WriteError(w, http.StatusBadRequest, "all fields are required")
		return
	}
	if len(req.Password) < 6 {
		api.WriteError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.Log.Error().Err(err).Msg("password hash failed")
		api.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := h.Users.Create(r.Context(), req.Email, hash, req.FirstName, req.LastName)
	if err != nil {
		api.WriteServiceError(w, err)
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		h.Log.Error().Err(err).Msg("token issue failed")
		api.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, authResp{Token: token, User: user})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}

	// never reveal whether the email exists
	const msg = "if the email is registered, a reset link has been sent"

	user, err := h.Users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			h.Log.Error().Err(err).Msg("forgot-password lookup failed")
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"message": msg})
		return
	}

	token, err := h.Resets.Issue(r.Context(), user.ID)
	if err != nil {
		h.Log.Error().Err(err).Msg("reset token issue failed")
		api.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.Log.Info().Int64("user_id", user.ID).Str("reset_token", token).Msg("password reset requested")

	api.WriteJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad json")
		return
	}
	if len(req.NewPassword) < 6 {
		api.WriteError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	userID, err := h.Resets.Redeem(r.Context(), req.Token)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid or expired reset token")
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
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "password has been reset"})
}
