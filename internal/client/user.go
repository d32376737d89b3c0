package client

import (
	"context"
	"net/http"
	"strconv"

	"storefront/internal/models"
)

type UserAPI struct{ c *Client }

func (a *UserAPI) Profile(ctx context.Context) (models.User, error) {
	var out models.User
	err := a.c.request(ctx, http.MethodGet, "/user/profile", nil, &out)
	return out, err
}

func (a *UserAPI) UpdateProfile(ctx context.Context, firstName, lastName, phone string) (models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	err := a.c.request(ctx, http.MethodPut, "/user/profile", map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"phone":     phone,
	}, &out)
	return out.User, err
}

func (a *UserAPI) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return a.c.request(ctx, http.MethodPost, "/user/change-password", map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}, nil)
}

func (a *UserAPI) Addresses(ctx context.Context) ([]models.Address, error) {
	var out struct {
		Addresses []models.Address `json:"addresses"`
	}
	err := a.c.request(ctx, http.MethodGet, "/user/addresses", nil, &out)
	return out.Addresses, err
}

type AddressInput struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"isDefault"`
}

func (a *UserAPI) AddAddress(ctx context.Context, in AddressInput) (models.Address, error) {
	var out struct {
		Address models.Address `json:"address"`
	}
	err := a.c.request(ctx, http.MethodPost, "/user/addresses", in, &out)
	return out.Address, err
}

func (a *UserAPI) UpdateAddress(ctx context.Context, addressID int64, in AddressInput) error {
	return a.c.request(ctx, http.MethodPut, "/user/addresses/"+strconv.FormatInt(addressID, 10), in, nil)
}

func (a *UserAPI) DeleteAddress(ctx context.Context, addressID int64) error {
	return a.c.request(ctx, http.MethodDelete, "/user/addresses/"+strconv.FormatInt(addressID, 10), nil, nil)
}
