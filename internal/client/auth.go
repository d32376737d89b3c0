package client

import (
	"context"
	"net/http"

	"storefront/internal/models"
)

type AuthAPI struct{ c *Client }

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := a.c.request(ctx, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, &out)
	return out, err
}

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (a *AuthAPI) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	var out AuthResponse
	err := a.c.request(ctx, http.MethodPost, "/auth/register", in, &out)
	return out, err
}

func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := a.c.request(ctx, http.MethodPost, "/auth/forgot-password",
		map[string]string{"email": email}, &out)
	return out.Message, err
}

func (a *AuthAPI) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := a.c.request(ctx, http.MethodPost, "/auth/reset-password",
		map[string]string{"token": token, "newPassword": newPassword}, &out)
	return out.Message, err
}
