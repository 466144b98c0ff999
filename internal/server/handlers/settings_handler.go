package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/server/middleware"
	"github.com/albaehandicraft/umkmpos/internal/service/identity"
)

const maxSettingsBody = 64 << 10

// SettingsService manages store and cashier screen settings.
type SettingsService interface {
	StoreProfile(ctx context.Context) models.StoreSettings
	SaveStoreProfile(ctx context.Context, settings models.StoreSettings) (*models.StoreSettings, error)
	UISettings(ctx context.Context, userID string) models.UISettings
	SaveUISettings(ctx context.Context, userID string, payload []byte) (models.UISettings, error)
	PaymentMethods() []models.PaymentOption
}

// SettingsHandler exposes the settings screens.
type SettingsHandler struct {
	svc    SettingsService
	logger *zap.Logger
}

func NewSettingsHandler(svc SettingsService, logger *zap.Logger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{svc: svc, logger: logger}
}

func (h *SettingsHandler) GetStore(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.StoreProfile(c.Request.Context()))
}

func (h *SettingsHandler) SaveStore(c *gin.Context) {
	var req models.StoreSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	saved, err := h.svc.SaveStoreProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// GetUI returns the caller's UI settings. ?scope=shared returns the store-wide ones.
func (h *SettingsHandler) GetUI(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.UISettings(c.Request.Context(), h.uiOwner(c)))
}

// SaveUI saves the caller's UI settings. Only admins may save the shared ones.
func (h *SettingsHandler) SaveUI(c *gin.Context) {
	if c.Query("scope") == "shared" {
		if err := identity.Authorize(middleware.SessionFrom(c), models.RoleAdmin); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSettingsBody))
	if err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	saved, err := h.svc.SaveUISettings(c.Request.Context(), h.uiOwner(c), payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *SettingsHandler) PaymentMethods(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.PaymentMethods())
}

func (h *SettingsHandler) uiOwner(c *gin.Context) string {
	if c.Query("scope") == "shared" {
		return ""
	}
	return middleware.SessionFrom(c).UserID()
}
