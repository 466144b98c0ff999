package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/pkg/validate"
)

// ErrSaveFailed is returned when the backend did not store the settings.
var ErrSaveFailed = errors.New("failed to save settings")

// Store is the settings persistence.
type Store interface {
	GetStoreSettings(ctx context.Context) *models.StoreSettings
	SaveStoreSettings(ctx context.Context, settings models.StoreSettings) *models.StoreSettings
	GetUISettings(ctx context.Context, userID string) *models.UISettingsRecord
	SaveUISettings(ctx context.Context, userID string, settings models.UISettings) *models.UISettingsRecord
}

// Service manages the store profile, cashier screen settings and payment catalogue.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService wires a new settings service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// StoreProfile returns the saved store profile, or an empty one.
func (s *Service) StoreProfile(ctx context.Context) models.StoreSettings {
	if settings := s.store.GetStoreSettings(ctx); settings != nil {
		return *settings
	}
	return models.StoreSettings{}
}

// SaveStoreProfile validates and stores the store profile.
func (s *Service) SaveStoreProfile(ctx context.Context, settings models.StoreSettings) (*models.StoreSettings, error) {
	settings.StoreName = strings.TrimSpace(settings.StoreName)
	if err := validate.Struct(settings); err != nil {
		return nil, err
	}

	saved := s.store.SaveStoreSettings(ctx, settings)
	if saved == nil {
		return nil, ErrSaveFailed
	}
	return saved, nil
}

// UISettings returns the settings of userID, falling back to the shared row
// and then to the defaults.
func (s *Service) UISettings(ctx context.Context, userID string) models.UISettings {
	if userID != "" {
		if record := s.store.GetUISettings(ctx, userID); record != nil {
			return record.Settings
		}
	}
	if record := s.store.GetUISettings(ctx, ""); record != nil {
		return record.Settings
	}
	return models.DefaultUISettings()
}

// SaveUISettings decodes, validates and stores a settings payload for userID.
func (s *Service) SaveUISettings(ctx context.Context, userID string, payload []byte) (models.UISettings, error) {
	settings, err := DecodeUISettings(payload)
	if err != nil {
		return models.UISettings{}, err
	}
	if err := ValidateUISettings(settings); err != nil {
		return models.UISettings{}, err
	}

	saved := s.store.SaveUISettings(ctx, userID, settings)
	if saved == nil {
		return models.UISettings{}, ErrSaveFailed
	}
	s.logger.Info("ui settings saved", zap.String("user_id", userID))
	return saved.Settings, nil
}

// PaymentMethods returns the payment catalogue.
func (s *Service) PaymentMethods() []models.PaymentOption {
	return models.PaymentOptions()
}

// DecodeUISettings parses a payload on top of the defaults, rejecting unknown keys.
func DecodeUISettings(payload []byte) (models.UISettings, error) {
	settings := models.DefaultUISettings()
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&settings); err != nil {
		verr := new(models.ValidationError)
		verr.Add("settings", fmt.Sprintf("invalid payload: %v", err))
		return models.UISettings{}, verr
	}
	return settings, nil
}

// ValidateUISettings checks enumerated options and colours against the
// binding tags of models.UISettings.
func ValidateUISettings(s models.UISettings) error {
	return validate.Struct(s)
}
