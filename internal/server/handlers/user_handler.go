package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/server/middleware"
	"github.com/albaehandicraft/umkmpos/internal/service/identity"
)

// UserDirectory lists and updates user profiles.
type UserDirectory interface {
	List(ctx context.Context) []models.User
	Update(ctx context.Context, actor identity.Session, id string, update models.UserUpdate) (*models.User, error)
}

// UserHandler exposes user administration.
type UserHandler struct {
	users  UserDirectory
	logger *zap.Logger
}

func NewUserHandler(users UserDirectory, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{users: users, logger: logger}
}

func (h *UserHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.users.List(c.Request.Context()))
}

func (h *UserHandler) Update(c *gin.Context) {
	var req models.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), middleware.SessionFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
