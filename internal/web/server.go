// Package web is the server-rendered storefront. It holds no state of
// its own: every request builds a commerce API client around the
// visitor's auth cookie and renders what the API returns.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/client"
	"storefront/internal/metrics"
	"storefront/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pages rendered inside the shared layout.
var pageNames = []string{
	"home", "products", "product", "cart", "checkout",
	"orders", "order", "login", "register", "forgot", "reset", "profile",
}

type Server struct {
	Log    zerolog.Logger
	apiURL string
	http   *http.Client
	pages  map[string]*template.Template
}

func NewServer(log zerolog.Logger, apiURL string, httpClient *http.Client) (*Server, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}
	s := &Server{Log: log, apiURL: apiURL, http: httpClient, pages: map[string]*template.Template{}}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		s.pages[name] = tmpl
	}
	return s, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware("storefront-web"))
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))

	r.Get("/", s.Home)
	r.Get("/products", s.Products)
	r.Get("/product/{id}", s.Product)
	r.Post("/product/{id}/add", s.AddToCart)

	r.Get("/login", s.LoginPage)
	r.Post("/login", s.Login)
	r.Get("/register", s.RegisterPage)
	r.Post("/register", s.Register)
	r.Post("/logout", s.Logout)
	r.Get("/forgot-password", s.ForgotPasswordPage)
	r.Post("/forgot-password", s.ForgotPassword)
	r.Get("/reset-password", s.ResetPasswordPage)
	r.Post("/reset-password", s.ResetPassword)

	r.Get("/cart", s.Cart)
	r.Post("/cart/update", s.UpdateCartItem)
	r.Post("/cart/remove", s.RemoveCartItem)
	r.Post("/cart/clear", s.ClearCart)
	r.Get("/checkout", s.Checkout)
	r.Post("/checkout", s.PlaceOrder)

	r.Get("/orders", s.Orders)
	r.Get("/orders/{id}", s.Order)
	r.Post("/orders/{id}/cancel", s.CancelOrder)

	r.Get("/profile", s.Profile)
	r.Post("/profile", s.UpdateProfile)
	r.Post("/profile/password", s.ChangePassword)
	r.Post("/profile/addresses", s.AddAddress)
	r.Post("/profile/addresses/{id}", s.UpdateAddress)
	r.Post("/profile/addresses/{id}/delete", s.DeleteAddress)

	return r
}

// request scope: one API client per request, token backed by the
// visitor's cookie, session hydrated from the profile endpoint.
type reqScope struct {
	api  *client.Client
	sess *client.Session
}

func (s *Server) scope(w http.ResponseWriter, r *http.Request) *reqScope {
	api := client.New(s.apiURL, NewCookieTokenStore(w, r), s.http)
	sess := client.NewSession(api)
	sess.Hydrate(r.Context())
	return &reqScope{api: api, sess: sess}
}

// requireAuth redirects guests to the login page before any view of
// the protected page is built.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) (*reqScope, bool) {
	sc := s.scope(w, r)
	if !sc.sess.Authenticated() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, false
	}
	return sc, true
}

// viewData is what every template receives. Page carries the
// page-specific payload.
type viewData struct {
	User      *models.User
	CartCount int
	Flash     string
	Error     string
	Page      any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, sc *reqScope, name string, data viewData) {
	data.User = sc.sess.User()
	if data.Flash == "" {
		data.Flash = popFlash(w, r)
	}
	if data.Error == "" {
		data.Error = popErrorFlash(w, r)
	}
	if sc.sess.Authenticated() {
		if count, err := sc.api.Cart.Count(r.Context()); err == nil {
			data.CartCount = count
		}
	}
	tmpl, ok := s.pages[name]
	if !ok {
		s.Log.Error().Str("page", name).Msg("unknown page template")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		s.Log.Error().Err(err).Str("page", name).Msg("render page")
	}
}
