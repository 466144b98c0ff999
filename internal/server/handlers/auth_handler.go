package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/server/middleware"
	"github.com/albaehandicraft/umkmpos/internal/service/identity"
)

// AuthService signs users in and out.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (identity.Session, error)
	SignUp(ctx context.Context, req identity.SignUpRequest) (identity.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// AuthHandler exposes sign-in, sign-up and sign-out.
type AuthHandler struct {
	svc    AuthService
	logger *zap.Logger
}

func NewAuthHandler(svc AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	identity.Session
	AccessToken string `json:"access_token,omitempty"`
}

func newSessionResponse(s identity.Session) sessionResponse {
	return sessionResponse{Session: s, AccessToken: s.AccessToken}
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	session, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session))
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req identity.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	session, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionResponse(session))
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if err := h.svc.SignOut(c.Request.Context(), session.AccessToken); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the session of the caller.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.SessionFrom(c))
}
