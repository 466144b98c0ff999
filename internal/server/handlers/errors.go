package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/service/checkout"
	"github.com/albaehandicraft/umkmpos/internal/service/identity"
	"github.com/albaehandicraft/umkmpos/internal/service/inventory"
	"github.com/albaehandicraft/umkmpos/internal/service/receipt"
	"github.com/albaehandicraft/umkmpos/internal/service/reporting"
	"github.com/albaehandicraft/umkmpos/internal/service/settings"
	client "github.com/albaehandicraft/umkmpos/pkg/clients/supabase"
	"github.com/albaehandicraft/umkmpos/pkg/validate"
)

// gin binds request bodies with its own validator instance; it needs the
// same decimal support and aliases the services validate with.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validate.Register(v)
	}
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{checkout.ErrEmptyCart, http.StatusBadRequest},
	{checkout.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{checkout.ErrAmountRequired, http.StatusBadRequest},
	{checkout.ErrUnknownProvider, http.StatusBadRequest},
	{checkout.ErrInvalidQuantity, http.StatusBadRequest},
	{reporting.ErrInvalidView, http.StatusBadRequest},
	{reporting.ErrInvalidPeriod, http.StatusBadRequest},
	{reporting.ErrPeriodTooLong, http.StatusBadRequest},
	{identity.ErrMissingCredentials, http.StatusBadRequest},
	{identity.ErrInvalidRole, http.StatusBadRequest},

	{identity.ErrInvalidCredentials, http.StatusUnauthorized},
	{identity.ErrInvalidToken, http.StatusUnauthorized},
	{identity.ErrUnauthenticated, http.StatusUnauthorized},

	{identity.ErrForbidden, http.StatusForbidden},
	{identity.ErrInactiveUser, http.StatusForbidden},
	{identity.ErrProfileNotFound, http.StatusForbidden},

	{checkout.ErrSessionNotFound, http.StatusNotFound},
	{checkout.ErrLineNotFound, http.StatusNotFound},
	{inventory.ErrProductNotFound, http.StatusNotFound},
	{identity.ErrUserNotFound, http.StatusNotFound},
	{errTransactionNotFound, http.StatusNotFound},

	{checkout.ErrInvalidTransition, http.StatusConflict},
	{checkout.ErrCartLocked, http.StatusConflict},
	{checkout.ErrNoReceipt, http.StatusConflict},

	{receipt.ErrShareUnavailable, http.StatusNotImplemented},
	{reporting.ErrInsightsDisabled, http.StatusNotImplemented},

	{checkout.ErrCommitFailed, http.StatusBadGateway},
	{inventory.ErrSaveFailed, http.StatusBadGateway},
	{settings.ErrSaveFailed, http.StatusBadGateway},
}

var errTransactionNotFound = errors.New("transaction not found")

// respondError maps service errors to HTTP responses. Backend failures get a
// generic message; the detail only goes to the log.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if fields := validate.Fields(err); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}

	for _, e := range errorStatuses {
		if !errors.Is(err, e.err) {
			continue
		}
		if e.status == http.StatusBadGateway {
			logger.Error("backend request failed", zap.String("path", c.FullPath()), zap.Error(err))
			c.JSON(e.status, gin.H{"error": "backend request failed"})
			return
		}
		c.JSON(e.status, gin.H{"error": err.Error()})
		return
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		logger.Error("backend request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend request failed"})
		return
	}

	logger.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func invalidBody(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	if fields := validate.Fields(err); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
