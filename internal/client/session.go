package client

import (
	"context"

	"storefront/internal/models"
)

// Session is the client-side auth state: unauthenticated until a
// login/register succeeds or a persisted token hydrates a profile.
// There is no token refresh; expiry surfaces on the next failing call.
type Session struct {
	api  *Client
	user *models.User
}

func NewSession(api *Client) *Session { return &Session{api: api} }

// Hydrate restores the session from a persisted token. A rejected
// token means "expired", not an error: the token is cleared and the
// session stays unauthenticated.
func (s *Session) Hydrate(ctx context.Context) {
	if s.api.Tokens().Token() == "" {
		return
	}
	user, err := s.api.User.Profile(ctx)
	if err != nil {
		s.api.Tokens().ClearToken()
		s.user = nil
		return
	}
	s.user = &user
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.api.Tokens().SetToken(resp.Token)
	s.user = &resp.User
	return nil
}

func (s *Session) Register(ctx context.Context, in RegisterInput) error {
	resp, err := s.api.Auth.Register(ctx, in)
	if err != nil {
		return err
	}
	s.api.Tokens().SetToken(resp.Token)
	s.user = &resp.User
	return nil
}

func (s *Session) Logout() {
	s.api.Tokens().ClearToken()
	s.user = nil
}

func (s *Session) Authenticated() bool { return s.user != nil }

func (s *Session) User() *models.User { return s.user }

// SetUser patches the in-memory user record after a profile update.
func (s *Session) SetUser(u models.User) {
	if s.user != nil {
		s.user = &u
	}
}
