package supabase

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	client "github.com/albaehandicraft/umkmpos/pkg/clients/supabase"
)

// ListUsers returns every user profile ordered by name.
func (g *Gateway) ListUsers(ctx context.Context) []models.User {
	var users []models.User
	if err := g.client.Select(ctx, usersTable, url.Values{"select": {"*"}, "order": {"name.asc"}}, &users); err != nil {
		g.logger.Error("failed to fetch users", zap.Error(err))
		return []models.User{}
	}
	if users == nil {
		return []models.User{}
	}
	return users
}

// GetUser returns a user profile or nil.
func (g *Gateway) GetUser(ctx context.Context, id string) *models.User {
	user := new(models.User)
	query := url.Values{"select": {"*"}, "id": {client.Eq(id)}}
	if err := g.client.SelectSingle(ctx, usersTable, query, user); err != nil {
		g.logger.Error("failed to fetch user", zap.String("user_id", id), zap.Error(err))
		return nil
	}
	return user
}

// CreateUser inserts a user profile keyed by the identity id.
func (g *Gateway) CreateUser(ctx context.Context, user models.User) *models.User {
	user.CreatedAt, user.UpdatedAt = nil, nil

	created := new(models.User)
	if err := g.client.InsertSingle(ctx, usersTable, user, created); err != nil {
		g.logger.Error("failed to create user", zap.String("user_id", user.ID), zap.Error(err))
		return nil
	}
	return created
}

// UpdateUser applies a partial profile update.
func (g *Gateway) UpdateUser(ctx context.Context, id string, update models.UserUpdate) *models.User {
	updated := new(models.User)
	query := url.Values{"id": {client.Eq(id)}}
	if err := g.client.UpdateSingle(ctx, usersTable, query, update, updated); err != nil {
		g.logger.Error("failed to update user", zap.String("user_id", id), zap.Error(err))
		return nil
	}
	return updated
}
