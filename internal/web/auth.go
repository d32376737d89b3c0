package web

import (
	"net/http"

	"storefront/internal/client"
)

type loginPage struct {
	Email string
}

func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	if sc.sess.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, sc, "login", viewData{Page: loginPage{}})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	email := r.FormValue("email")
	password := r.FormValue("password")

	if err := sc.sess.Login(r.Context(), email, password); err != nil {
		s.render(w, r, sc, "login", viewData{
			Error: errText(err),
			Page:  loginPage{Email: email},
		})
		return
	}
	setFlash(w, "Welcome back")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type registerPage struct {
	FirstName string
	LastName  string
	Email     string
}

func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	if sc.sess.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, sc, "register", viewData{Page: registerPage{}})
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	in := client.RegisterInput{
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
	}
	page := registerPage{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}

	// mismatch is caught here, nothing is sent to the API
	if in.Password != r.FormValue("confirmPassword") {
		s.render(w, r, sc, "register", viewData{Error: "Passwords do not match", Page: page})
		return
	}
	if err := sc.sess.Register(r.Context(), in); err != nil {
		s.render(w, r, sc, "register", viewData{Error: errText(err), Page: page})
		return
	}
	setFlash(w, "Account created")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	sc.sess.Logout()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type forgotPage struct {
	Email   string
	Message string
}

func (s *Server) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	s.render(w, r, sc, "forgot", viewData{Page: forgotPage{}})
}

func (s *Server) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	email := r.FormValue("email")
	msg, err := sc.api.Auth.ForgotPassword(r.Context(), email)
	if err != nil {
		s.render(w, r, sc, "forgot", viewData{Error: errText(err), Page: forgotPage{Email: email}})
		return
	}
	s.render(w, r, sc, "forgot", viewData{Page: forgotPage{Message: msg}})
}

type resetPage struct {
	Token string
}

func (s *Server) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	s.render(w, r, sc, "reset", viewData{Page: resetPage{Token: r.URL.Query().Get("token")}})
}

func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	sc := s.scope(w, r)
	token := r.FormValue("token")
	newPassword := r.FormValue("newPassword")
	if newPassword != r.FormValue("confirmPassword") {
		s.render(w, r, sc, "reset", viewData{Error: "Passwords do not match", Page: resetPage{Token: token}})
		return
	}
	if _, err := sc.api.Auth.ResetPassword(r.Context(), token, newPassword); err != nil {
		s.render(w, r, sc, "reset", viewData{Error: errText(err), Page: resetPage{Token: token}})
		return
	}
	setFlash(w, "Password updated, please sign in")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func errText(err error) string {
	if apiErr, ok := err.(*client.APIError); ok {
		return apiErr.Message
	}
	return "something went wrong, please try again"
}
