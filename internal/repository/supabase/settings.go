package supabase

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	client "github.com/albaehandicraft/umkmpos/pkg/clients/supabase"
)

type idRow struct {
	ID string `json:"id"`
}

// GetStoreSettings returns the single store profile row, or nil.
func (g *Gateway) GetStoreSettings(ctx context.Context) *models.StoreSettings {
	settings := new(models.StoreSettings)
	query := url.Values{"select": {"*"}, "limit": {"1"}}
	if err := g.client.SelectSingle(ctx, storeSettingsTable, query, settings); err != nil {
		g.logger.Error("failed to fetch store settings", zap.Error(err))
		return nil
	}
	return settings
}

// SaveStoreSettings updates the existing store profile or creates it when none exists.
func (g *Gateway) SaveStoreSettings(ctx context.Context, settings models.StoreSettings) *models.StoreSettings {
	settings.ID = ""
	settings.CreatedAt, settings.UpdatedAt = nil, nil

	var existing []idRow
	_ = g.client.Select(ctx, storeSettingsTable, url.Values{"select": {"id"}, "limit": {"1"}}, &existing)

	saved := new(models.StoreSettings)
	if len(existing) > 0 {
		query := url.Values{"id": {client.Eq(existing[0].ID)}}
		if err := g.client.UpdateSingle(ctx, storeSettingsTable, query, settings, saved); err != nil {
			g.logger.Error("failed to update store settings", zap.Error(err))
			return nil
		}
		return saved
	}

	if err := g.client.InsertSingle(ctx, storeSettingsTable, settings, saved); err != nil {
		g.logger.Error("failed to create store settings", zap.Error(err))
		return nil
	}
	return saved
}

// GetUISettings returns the UI settings of a user, or the shared defaults row
// when userID is empty. A missing row is not logged as a failure.
func (g *Gateway) GetUISettings(ctx context.Context, userID string) *models.UISettingsRecord {
	record := new(models.UISettingsRecord)
	query := uiSettingsQuery(userID, "*")
	query.Set("limit", "1")

	if err := g.client.SelectSingle(ctx, uiSettingsTable, query, record); err != nil {
		if !client.IsNoRows(err) {
			g.logger.Error("failed to fetch ui settings", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}
	return record
}

// SaveUISettings updates or creates the UI settings row of a user (or the shared row).
func (g *Gateway) SaveUISettings(ctx context.Context, userID string, settings models.UISettings) *models.UISettingsRecord {
	var existing []idRow
	query := uiSettingsQuery(userID, "id")
	query.Set("limit", "1")
	_ = g.client.Select(ctx, uiSettingsTable, query, &existing)

	saved := new(models.UISettingsRecord)
	if len(existing) > 0 {
		body := map[string]any{"settings": settings}
		if err := g.client.UpdateSingle(ctx, uiSettingsTable, url.Values{"id": {client.Eq(existing[0].ID)}}, body, saved); err != nil {
			g.logger.Error("failed to update ui settings", zap.String("user_id", userID), zap.Error(err))
			return nil
		}
		return saved
	}

	record := models.UISettingsRecord{Settings: settings}
	if userID != "" {
		record.UserID = &userID
	}
	if err := g.client.InsertSingle(ctx, uiSettingsTable, record, saved); err != nil {
		g.logger.Error("failed to create ui settings", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	return saved
}

func uiSettingsQuery(userID, columns string) url.Values {
	query := url.Values{"select": {columns}}
	if userID != "" {
		query.Set("user_id", client.Eq(userID))
	} else {
		query.Set("user_id", "is.null")
	}
	return query
}
