package web

import (
	"net/http"
	"net/url"
)

const (
	authCookie       = "auth_token"
	flashCookie      = "flash"
	errorFlashCookie = "flash_error"

	// matches the API token TTL so the cookie and the JWT expire together
	authCookieMaxAge = 24 * 60 * 60
)

// CookieTokenStore binds the client token store to one request's
// cookie jar. Reads come from the request, writes go to the response.
type CookieTokenStore struct {
	w http.ResponseWriter
	r *http.Request
}

func NewCookieTokenStore(w http.ResponseWriter, r *http.Request) *CookieTokenStore {
	return &CookieTokenStore{w: w, r: r}
}

func (s *CookieTokenStore) Token() string {
	c, err := s.r.Cookie(authCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *CookieTokenStore) SetToken(token string) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     authCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   authCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *CookieTokenStore) ClearToken() {
	http.SetCookie(s.w, &http.Cookie{
		Name:     authCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// setFlash queues a one-shot success banner for the next page render.
// Errors go through setErrorFlash; the two render as different
// banners and only the success one auto-dismisses.
func setFlash(w http.ResponseWriter, message string) {
	setOneShot(w, flashCookie, message)
}

func setErrorFlash(w http.ResponseWriter, message string) {
	setOneShot(w, errorFlashCookie, message)
}

func setOneShot(w http.ResponseWriter, name, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	return popOneShot(w, r, flashCookie)
}

func popErrorFlash(w http.ResponseWriter, r *http.Request) string {
	return popOneShot(w, r, errorFlashCookie)
}

func popOneShot(w http.ResponseWriter, r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
