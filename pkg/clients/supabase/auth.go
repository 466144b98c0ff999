package supabase

import (
	"context"
	"fmt"
	"net/http"
)

// AuthUser is the identity record kept by the auth service.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthSession is returned by password sign-in and sign-up.
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword exchanges email and password for a session.
func (c *APIClient) SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error) {
	result := new(AuthSession)
	req := c.auth.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(credentials{Email: email, Password: password}).
		SetResult(result)

	if err := c.do(req, http.MethodPost, "token"); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return result, nil
}

// SignUp registers a new identity. When email confirmation is disabled the
// response carries a session; otherwise only User is populated.
func (c *APIClient) SignUp(ctx context.Context, email, password string) (*AuthSession, error) {
	raw := new(signUpResponse)
	req := c.auth.R().
		SetContext(ctx).
		SetBody(credentials{Email: email, Password: password}).
		SetResult(raw)

	if err := c.do(req, http.MethodPost, "signup"); err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	return raw.session(), nil
}

// SignOut revokes the refresh tokens tied to accessToken.
func (c *APIClient) SignOut(ctx context.Context, accessToken string) error {
	req := c.auth.R().
		SetContext(ctx).
		SetAuthToken(accessToken)

	if err := c.do(req, http.MethodPost, "logout"); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// GetUser returns the identity behind accessToken.
func (c *APIClient) GetUser(ctx context.Context, accessToken string) (*AuthUser, error) {
	result := new(AuthUser)
	req := c.auth.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(result)

	if err := c.do(req, http.MethodGet, "user"); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return result, nil
}

// signUpResponse covers both shapes the signup endpoint answers with.
type signUpResponse struct {
	AuthSession
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (r *signUpResponse) session() *AuthSession {
	s := r.AuthSession
	if s.User.ID == "" {
		s.User = AuthUser{ID: r.ID, Email: r.Email}
	}
	return &s
}

