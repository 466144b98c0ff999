package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/server/middleware"
	"github.com/albaehandicraft/umkmpos/internal/service/checkout"
	"github.com/albaehandicraft/umkmpos/internal/service/identity"
	"github.com/albaehandicraft/umkmpos/internal/service/inventory"
)

type fakeCatalog map[string]models.Product

func (f fakeCatalog) Get(_ context.Context, id string) (*models.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, inventory.ErrProductNotFound
	}
	return &p, nil
}

type fakeCheckoutGateway struct {
	failHeader bool
	headers    int
}

func (f *fakeCheckoutGateway) CreateTransaction(_ context.Context, tx models.Transaction) *models.Transaction {
	if f.failHeader {
		return nil
	}
	f.headers++
	tx.ID = "tx-1"
	return &tx
}

func (f *fakeCheckoutGateway) CreateTransactionItems(context.Context, []models.TransactionItem) bool {
	return true
}

func (f *fakeCheckoutGateway) DecrementStock(context.Context, string, int) bool { return true }

func (f *fakeCheckoutGateway) GetStoreSettings(context.Context) *models.StoreSettings {
	return &models.StoreSettings{StoreName: "Toko Anyaman"}
}

func sessionFor(id string, role models.Role) identity.Session {
	return identity.Session{
		State: identity.StateAuthenticated,
		User:  &models.User{ID: id, Name: "Sari", Role: role, IsActive: true},
	}
}

func newCheckoutEngine(gw checkout.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)
	catalog := fakeCatalog{
		"p1": {ID: "p1", Name: "Tas Anyaman", Price: decimal.NewFromInt(25000), IsActive: true},
		"p2": {ID: "p2", Name: "Topi Pandan", Price: decimal.NewFromInt(15000), IsActive: true},
		"p3": {ID: "p3", Name: "Lama", Price: decimal.NewFromInt(1000), IsActive: false},
	}
	h := NewCheckoutHandler(checkout.NewSessionManager(gw, nil), catalog, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.WithSession(c, sessionFor(c.GetHeader("X-User"), models.RoleCashier))
	})
	g := r.Group("/checkout")
	g.POST("/sessions", h.Open)
	g.GET("/sessions/:id", h.Get)
	g.DELETE("/sessions/:id", h.Close)
	g.POST("/sessions/:id/items", h.AddItem)
	g.PATCH("/sessions/:id/items/:productId", h.UpdateItem)
	g.DELETE("/sessions/:id/items/:productId", h.RemoveItem)
	g.POST("/sessions/:id/proceed", h.Proceed)
	g.POST("/sessions/:id/confirm", h.Confirm)
	g.POST("/sessions/:id/finish", h.Finish)
	g.POST("/sessions/:id/cancel", h.Cancel)
	g.GET("/sessions/:id/receipt", h.Receipt)
	g.POST("/sessions/:id/receipt/share", h.ShareReceipt)
	return r
}

func call(t *testing.T, r http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type snapshotBody struct {
	ID            string          `json:"id"`
	State         string          `json:"state"`
	Lines         []checkout.Line `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	Change        *string         `json:"change"`
	ReceiptNumber string          `json:"receipt_number"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) snapshotBody {
	t.Helper()
	var body snapshotBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestCheckout_FullSale(t *testing.T) {
	gw := &fakeCheckoutGateway{}
	r := newCheckoutEngine(gw)

	w := call(t, r, http.MethodPost, "/checkout/sessions", "u1", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w).ID
	base := "/checkout/sessions/" + id

	require.Equal(t, http.StatusOK, call(t, r, http.MethodPost, base+"/items", "u1", gin.H{"product_id": "p1"}).Code)
	require.Equal(t, http.StatusOK, call(t, r, http.MethodPost, base+"/items", "u1", gin.H{"product_id": "p2"}).Code)
	w = call(t, r, http.MethodPatch, base+"/items/p1", "u1", gin.H{"delta": 1})
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode(t, w)
	assert.True(t, snap.Total.Equal(decimal.NewFromInt(71500)), snap.Total.String())

	w = call(t, r, http.MethodPost, base+"/proceed", "u1", gin.H{"method": "cash", "amount_paid": "Rp 100.000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snap = decode(t, w)
	assert.Equal(t, "confirming", snap.State)
	require.NotNil(t, snap.Change)
	assert.Equal(t, "28500", *snap.Change)

	w = call(t, r, http.MethodPost, base+"/confirm", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"receipt"`)
	assert.Equal(t, 1, gw.headers)

	w = call(t, r, http.MethodGet, base+"/receipt", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "TOKO ANYAMAN")
	assert.Contains(t, w.Body.String(), "Rp 71.500")

	assert.Equal(t, http.StatusNotImplemented, call(t, r, http.MethodPost, base+"/receipt/share", "u1", nil).Code)

	w = call(t, r, http.MethodPost, base+"/finish", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap = decode(t, w)
	assert.Equal(t, "reviewing", snap.State)
	assert.Empty(t, snap.Lines)
}

func TestCheckout_ErrorMapping(t *testing.T) {
	gw := &fakeCheckoutGateway{failHeader: true}
	r := newCheckoutEngine(gw)

	id := decode(t, call(t, r, http.MethodPost, "/checkout/sessions", "u1", nil)).ID
	base := "/checkout/sessions/" + id

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   any
		status int
	}{
		{name: "unknown product", method: http.MethodPost, path: "/items", user: "u1", body: gin.H{"product_id": "nope"}, status: http.StatusNotFound},
		{name: "inactive product", method: http.MethodPost, path: "/items", user: "u1", body: gin.H{"product_id": "p3"}, status: http.StatusNotFound},
		{name: "missing product id", method: http.MethodPost, path: "/items", user: "u1", body: gin.H{}, status: http.StatusBadRequest},
		{name: "proceed with empty cart", method: http.MethodPost, path: "/proceed", user: "u1", body: gin.H{"method": "cash", "amount_paid": "10"}, status: http.StatusBadRequest},
		{name: "confirm while reviewing", method: http.MethodPost, path: "/confirm", user: "u1", status: http.StatusConflict},
		{name: "receipt before completion", method: http.MethodGet, path: "/receipt", user: "u1", status: http.StatusConflict},
		{name: "other cashier", method: http.MethodGet, path: "", user: "u2", status: http.StatusNotFound},
		{name: "add item", method: http.MethodPost, path: "/items", user: "u1", body: gin.H{"product_id": "p1"}, status: http.StatusOK},
		{name: "zero quantity", method: http.MethodPatch, path: "/items/p1", user: "u1", body: gin.H{"quantity": 0}, status: http.StatusBadRequest},
		{name: "no quantity or delta", method: http.MethodPatch, path: "/items/p1", user: "u1", body: gin.H{}, status: http.StatusBadRequest},
		{name: "unknown line", method: http.MethodDelete, path: "/items/p9", user: "u1", status: http.StatusNotFound},
		{name: "bad method", method: http.MethodPost, path: "/proceed", user: "u1", body: gin.H{"method": "crypto"}, status: http.StatusBadRequest},
		{name: "proceed", method: http.MethodPost, path: "/proceed", user: "u1", body: gin.H{"method": "bank", "provider": "bri"}, status: http.StatusOK},
		{name: "cart locked", method: http.MethodPost, path: "/items", user: "u1", body: gin.H{"product_id": "p1"}, status: http.StatusConflict},
		{name: "commit failure", method: http.MethodPost, path: "/confirm", user: "u1", status: http.StatusBadGateway},
		{name: "cancel", method: http.MethodPost, path: "/cancel", user: "u1", status: http.StatusOK},
	}

	for _, tt := range tests {
		w := call(t, r, tt.method, base+tt.path, tt.user, tt.body)
		assert.Equal(t, tt.status, w.Code, "%s: %s", tt.name, w.Body.String())
	}

	assert.Equal(t, http.StatusNoContent, call(t, r, http.MethodDelete, base, "u1", nil).Code)
	assert.Equal(t, http.StatusNotFound, call(t, r, http.MethodGet, base, "u1", nil).Code)
}
