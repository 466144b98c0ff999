package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	client "github.com/albaehandicraft/umkmpos/pkg/clients/supabase"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrProfileNotFound    = errors.New("user profile not found")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidRole        = errors.New("invalid role")
)

// AuthClient is the subset of the hosted auth API the provider needs.
type AuthClient interface {
	SignInWithPassword(ctx context.Context, email, password string) (*client.AuthSession, error)
	SignUp(ctx context.Context, email, password string) (*client.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ProfileStore loads and creates the profile rows attached to identities.
type ProfileStore interface {
	GetUser(ctx context.Context, id string) *models.User
	CreateUser(ctx context.Context, user models.User) *models.User
}

// SignUpRequest carries the credentials and optional profile of a new user.
// Self-registered users are always cashiers; other roles are granted by an
// admin through the user directory.
type SignUpRequest struct {
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

// Provider signs users in and resolves bearer tokens into sessions.
type Provider struct {
	auth     AuthClient
	profiles ProfileStore
	secret   []byte
	logger   *zap.Logger
}

// NewProvider wires a provider. jwtSecret verifies access tokens locally.
func NewProvider(auth AuthClient, profiles ProfileStore, jwtSecret string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		auth:     auth,
		profiles: profiles,
		secret:   []byte(jwtSecret),
		logger:   logger,
	}
}

// SignIn exchanges credentials for an authenticated session.
func (p *Provider) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Anonymous(), ErrMissingCredentials
	}

	authSession, err := p.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		if isCredentialError(err) {
			return Anonymous(), ErrInvalidCredentials
		}
		return Anonymous(), fmt.Errorf("sign in: %w", err)
	}

	user, err := p.loadProfile(ctx, authSession.User.ID)
	if err != nil {
		return Anonymous(), err
	}

	p.logger.Info("user signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return Session{User: user, State: StateAuthenticated, AccessToken: authSession.AccessToken}, nil
}

// SignUp registers a new identity and its profile. Name defaults to the
// local part of the email. Any role other than cashier is rejected with
// ErrInvalidRole before the auth service is called. When the auth service
// requires email confirmation the returned session is anonymous.
func (p *Provider) SignUp(ctx context.Context, req SignUpRequest) (Session, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Anonymous(), ErrMissingCredentials
	}
	switch req.Role {
	case "", models.RoleCashier:
		req.Role = models.RoleCashier
	default:
		p.logger.Warn("sign up with elevated role rejected", zap.String("email", req.Email), zap.String("role", string(req.Role)))
		return Anonymous(), fmt.Errorf("%w: sign up only creates cashiers, got %s", ErrInvalidRole, req.Role)
	}
	if req.Name == "" {
		req.Name, _, _ = strings.Cut(req.Email, "@")
	}

	authSession, err := p.auth.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return Anonymous(), fmt.Errorf("sign up: %w", err)
	}

	profile := p.profiles.CreateUser(ctx, models.User{
		ID:       authSession.User.ID,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: true,
	})
	if profile == nil {
		return Anonymous(), fmt.Errorf("sign up: %w", ErrProfileNotFound)
	}

	if authSession.AccessToken == "" {
		return Session{User: profile, State: StateAnonymous}, nil
	}
	return Session{User: profile, State: StateAuthenticated, AccessToken: authSession.AccessToken}, nil
}

// SignOut revokes the refresh tokens of the session behind accessToken.
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return ErrUnauthenticated
	}
	if err := p.auth.SignOut(ctx, accessToken); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Resolve verifies an access token and loads the profile it belongs to.
func (p *Provider) Resolve(ctx context.Context, accessToken string) (Session, error) {
	claims := new(accessClaims)
	token, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		p.logger.Debug("rejected access token", zap.Error(err))
		return Anonymous(), ErrInvalidToken
	}

	user, err := p.loadProfile(ctx, claims.Subject)
	if err != nil {
		return Anonymous(), err
	}
	return Session{User: user, State: StateAuthenticated, AccessToken: accessToken}, nil
}

func (p *Provider) loadProfile(ctx context.Context, userID string) (*models.User, error) {
	user := p.profiles.GetUser(ctx, userID)
	if user == nil {
		return nil, ErrProfileNotFound
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

func isCredentialError(err error) bool {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized
}
