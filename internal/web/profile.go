package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storefront/internal/client"
	"storefront/internal/models"
)

type profilePage struct {
	Profile         models.User
	Addresses       []models.Address
	ConfirmDeleteID int64
}

func (s *Server) Profile(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	s.renderProfile(w, r, sc, "")
}

func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request, sc *reqScope, errMsg string) {
	page := profilePage{Profile: *sc.sess.User()}
	if addresses, err := sc.api.User.Addresses(r.Context()); err == nil {
		page.Addresses = addresses
	} else {
		s.Log.Warn().Err(err).Msg("load addresses")
	}
	if raw := r.URL.Query().Get("confirmDelete"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			page.ConfirmDeleteID = id
		}
	}
	s.render(w, r, sc, "profile", viewData{Error: errMsg, Page: page})
}

func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	user, err := sc.api.User.UpdateProfile(r.Context(),
		r.FormValue("firstName"), r.FormValue("lastName"), r.FormValue("phone"))
	if err != nil {
		s.renderProfile(w, r, sc, errText(err))
		return
	}
	sc.sess.SetUser(user)
	setFlash(w, "Profile updated")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	newPassword := r.FormValue("newPassword")

	// mismatch never reaches the API
	if newPassword != r.FormValue("confirmPassword") {
		s.renderProfile(w, r, sc, "New passwords do not match")
		return
	}
	if err := sc.api.User.ChangePassword(r.Context(), r.FormValue("currentPassword"), newPassword); err != nil {
		s.renderProfile(w, r, sc, errText(err))
		return
	}
	setFlash(w, "Password changed")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func addressFromForm(r *http.Request) client.AddressInput {
	return client.AddressInput{
		AddressLine1: r.FormValue("addressLine1"),
		AddressLine2: r.FormValue("addressLine2"),
		City:         r.FormValue("city"),
		State:        r.FormValue("state"),
		ZipCode:      r.FormValue("zipCode"),
		Country:      r.FormValue("country"),
		IsDefault:    r.FormValue("isDefault") == "on",
	}
}

func (s *Server) AddAddress(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if _, err := sc.api.User.AddAddress(r.Context(), addressFromForm(r)); err != nil {
		s.renderProfile(w, r, sc, errText(err))
		return
	}
	setFlash(w, "Address added")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Server) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := sc.api.User.UpdateAddress(r.Context(), id, addressFromForm(r)); err != nil {
		s.renderProfile(w, r, sc, errText(err))
		return
	}
	setFlash(w, "Address updated")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// DeleteAddress asks for confirmation first: without the confirmed
// field the handler only redirects back with the confirmation prompt
// armed, and no delete call is made.
func (s *Server) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if r.FormValue("confirmed") != "true" {
		http.Redirect(w, r, "/profile?confirmDelete="+strconv.FormatInt(id, 10), http.StatusSeeOther)
		return
	}
	if err := sc.api.User.DeleteAddress(r.Context(), id); err != nil {
		s.renderProfile(w, r, sc, errText(err))
		return
	}
	setFlash(w, "Address deleted")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
