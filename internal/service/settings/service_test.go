package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/pkg/validate"
)

// fieldErrors flattens tag failures and business-rule failures into one map.
func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	if fields := validate.Fields(err); fields != nil {
		return fields
	}
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

type fakeStore struct {
	store  *models.StoreSettings
	ui     map[string]models.UISettings
	saved  map[string]models.UISettings
	failUI bool
}

func (f *fakeStore) GetStoreSettings(context.Context) *models.StoreSettings { return f.store }

func (f *fakeStore) SaveStoreSettings(_ context.Context, s models.StoreSettings) *models.StoreSettings {
	f.store = &s
	return &s
}

func (f *fakeStore) GetUISettings(_ context.Context, userID string) *models.UISettingsRecord {
	s, ok := f.ui[userID]
	if !ok {
		return nil
	}
	return &models.UISettingsRecord{Settings: s}
}

func (f *fakeStore) SaveUISettings(_ context.Context, userID string, s models.UISettings) *models.UISettingsRecord {
	if f.failUI {
		return nil
	}
	if f.saved == nil {
		f.saved = map[string]models.UISettings{}
	}
	f.saved[userID] = s
	return &models.UISettingsRecord{Settings: s}
}

func TestUISettings_Fallbacks(t *testing.T) {
	shared := models.DefaultUISettings()
	shared.Layout.GridSize = "large"
	personal := models.DefaultUISettings()
	personal.Layout.GridSize = "small"

	svc := NewService(&fakeStore{ui: map[string]models.UISettings{"": shared, "u1": personal}}, nil)
	assert.Equal(t, "small", svc.UISettings(context.Background(), "u1").Layout.GridSize)
	assert.Equal(t, "large", svc.UISettings(context.Background(), "u2").Layout.GridSize)

	empty := NewService(&fakeStore{}, nil)
	assert.Equal(t, models.DefaultUISettings(), empty.UISettings(context.Background(), "u1"))
}

func TestSaveUISettings(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	saved, err := svc.SaveUISettings(context.Background(), "u1", []byte(`{"layout":{"grid_size":"large"},"appearance":{"button_style":"pill"}}`))
	require.NoError(t, err)
	assert.Equal(t, "large", saved.Layout.GridSize)
	assert.Equal(t, "pill", saved.Appearance.ButtonStyle)
	assert.Equal(t, "#4f46e5", saved.Appearance.PrimaryColor, "missing keys keep defaults")
	assert.Contains(t, store.saved, "u1")
}

func TestSaveUISettings_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{name: "unknown key", payload: `{"layout":{"columns":4}}`, field: "settings"},
		{name: "bad grid size", payload: `{"layout":{"grid_size":"huge"}}`, field: "layout.grid_size"},
		{name: "bad colour", payload: `{"appearance":{"primary_color":"blue"}}`, field: "appearance.primary_color"},
		{name: "bad position", payload: `{"categories":{"position":"bottom"}}`, field: "categories.position"},
		{name: "short colour", payload: `{"appearance":{"secondary_color":"#fff"}}`, field: "appearance.secondary_color"},
		{name: "bad button style", payload: `{"appearance":{"button_style":"circle"}}`, field: "appearance.button_style"},
		{name: "not json", payload: `grid=large`, field: "settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := NewService(store, nil)

			_, err := svc.SaveUISettings(context.Background(), "u1", []byte(tt.payload))
			assert.Contains(t, fieldErrors(t, err), tt.field)
			assert.Empty(t, store.saved)
		})
	}
}

func TestSaveStoreProfile(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	_, err := svc.SaveStoreProfile(context.Background(), models.StoreSettings{StoreName: "  "})
	assert.Equal(t, "is required", fieldErrors(t, err)["store_name"])

	_, err = svc.SaveStoreProfile(context.Background(), models.StoreSettings{StoreName: "Toko", Email: "not-an-email"})
	assert.Equal(t, "must be a valid email address", fieldErrors(t, err)["email"])
	assert.Nil(t, store.store)

	saved, err := svc.SaveStoreProfile(context.Background(), models.StoreSettings{StoreName: " Toko Anyaman "})
	require.NoError(t, err)
	assert.Equal(t, "Toko Anyaman", saved.StoreName)
	assert.Equal(t, "Toko Anyaman", svc.StoreProfile(context.Background()).StoreName)
}

func TestPaymentMethods(t *testing.T) {
	methods := NewService(&fakeStore{}, nil).PaymentMethods()
	require.Len(t, methods, 3)
	assert.Equal(t, models.PaymentCash, methods[0].Method)
	assert.Empty(t, methods[0].Providers)
	assert.Equal(t, []string{"gopay", "ovo", "dana", "shopeepay"}, methods[1].Providers)
	assert.Equal(t, "bca", methods[2].DefaultProvider)
	assert.Equal(t, "Transfer Bank", methods[2].Label)
}
