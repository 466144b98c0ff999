package identity

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/pkg/validate"
)

// ErrUserNotFound is returned when a profile update matched no user.
var ErrUserNotFound = errors.New("user not found")

// UserStore lists and updates profiles.
type UserStore interface {
	ListUsers(ctx context.Context) []models.User
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) *models.User
}

// Directory lets administrators manage user profiles.
type Directory struct {
	store  UserStore
	logger *zap.Logger
}

func NewDirectory(store UserStore, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{store: store, logger: logger}
}

func (d *Directory) List(ctx context.Context) []models.User {
	return d.store.ListUsers(ctx)
}

// Update changes a profile. An administrator cannot deactivate or demote themselves.
func (d *Directory) Update(ctx context.Context, actor Session, id string, update models.UserUpdate) (*models.User, error) {
	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		update.Name = &trimmed
	}
	if err := validate.Struct(update); err != nil {
		return nil, err
	}

	verr := new(models.ValidationError)
	if id == actor.UserID() {
		if update.IsActive != nil && !*update.IsActive {
			verr.Add("is_active", "cannot deactivate yourself")
		}
		if update.Role != nil && *update.Role != actor.User.Role {
			verr.Add("role", "cannot change your own role")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	updated := d.store.UpdateUser(ctx, id, update)
	if updated == nil {
		return nil, ErrUserNotFound
	}
	d.logger.Info("user updated", zap.String("user_id", id), zap.String("by", actor.UserID()))
	return updated, nil
}
