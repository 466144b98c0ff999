package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/server/middleware"
)

type fakeSettings struct {
	savedFor *string
	invalid  bool
}

func (f *fakeSettings) StoreProfile(context.Context) models.StoreSettings {
	return models.StoreSettings{StoreName: "Toko Anyaman"}
}

func (f *fakeSettings) SaveStoreProfile(_ context.Context, s models.StoreSettings) (*models.StoreSettings, error) {
	if s.StoreName == "" {
		verr := &models.ValidationError{}
		verr.Add("store_name", "is required")
		return nil, verr
	}
	return &s, nil
}

func (f *fakeSettings) UISettings(context.Context, string) models.UISettings {
	return models.DefaultUISettings()
}

func (f *fakeSettings) SaveUISettings(_ context.Context, userID string, _ []byte) (models.UISettings, error) {
	f.savedFor = &userID
	if f.invalid {
		verr := &models.ValidationError{}
		verr.Add("layout.grid_size", "must be one of small, medium, large")
		return models.UISettings{}, verr
	}
	return models.DefaultUISettings(), nil
}

func (f *fakeSettings) PaymentMethods() []models.PaymentOption {
	return models.PaymentOptions()
}

func newSettingsEngine(svc SettingsService, role models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSettingsHandler(svc, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) { middleware.WithSession(c, sessionFor("u1", role)) })
	r.GET("/settings/store", h.GetStore)
	r.PUT("/settings/store", h.SaveStore)
	r.PUT("/settings/ui", h.SaveUI)
	r.GET("/settings/payment-methods", h.PaymentMethods)
	return r
}

func put(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSettingsHandler_SaveUIScopes(t *testing.T) {
	svc := &fakeSettings{}
	r := newSettingsEngine(svc, models.RoleCashier)

	w := put(r, "/settings/ui", `{"layout":{"grid_size":"large"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, svc.savedFor)
	assert.Equal(t, "u1", *svc.savedFor)

	svc.savedFor = nil
	w = put(r, "/settings/ui?scope=shared", `{}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, svc.savedFor)

	admin := newSettingsEngine(svc, models.RoleAdmin)
	w = put(admin, "/settings/ui?scope=shared", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.savedFor)
	assert.Empty(t, *svc.savedFor)
}

func TestSettingsHandler_ValidationErrors(t *testing.T) {
	r := newSettingsEngine(&fakeSettings{invalid: true}, models.RoleAdmin)

	w := put(r, "/settings/ui", `{"layout":{"grid_size":"huge"}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "layout.grid_size")

	w = put(r, "/settings/store", `{"store_name":""}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation failed","fields":{"store_name":"is required"}}`, w.Body.String())

	w = put(r, "/settings/store", `{"store_name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsHandler_PaymentMethods(t *testing.T) {
	r := newSettingsEngine(&fakeSettings{}, models.RoleCashier)

	w := get(r, "/settings/payment-methods")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shopeepay")
	assert.Contains(t, w.Body.String(), "mandiri")
}
