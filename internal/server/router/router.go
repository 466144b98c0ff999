package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/server/handlers"
	"github.com/albaehandicraft/umkmpos/internal/server/middleware"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Checkout  *handlers.CheckoutHandler
	Inventory *handlers.InventoryHandler
	Reports   *handlers.ReportHandler
	Settings  *handlers.SettingsHandler
	Users     *handlers.UserHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, resolver middleware.SessionResolver, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/auth/sign-in", h.Auth.SignIn)
	r.POST("/auth/sign-up", h.Auth.SignUp)

	authed := r.Group("/", middleware.Authenticate(resolver, logger))
	authed.POST("/auth/sign-out", h.Auth.SignOut)
	authed.GET("/auth/me", h.Auth.Me)

	authed.GET("/products", h.Inventory.ListProducts)
	authed.GET("/products/:id", h.Inventory.GetProduct)
	authed.GET("/categories", h.Inventory.ListCategories)

	cashier := authed.Group("/checkout", middleware.RequireRole(models.RoleCashier))
	cashier.POST("/sessions", h.Checkout.Open)
	cashier.GET("/sessions/:id", h.Checkout.Get)
	cashier.DELETE("/sessions/:id", h.Checkout.Close)
	cashier.POST("/sessions/:id/items", h.Checkout.AddItem)
	cashier.PATCH("/sessions/:id/items/:productId", h.Checkout.UpdateItem)
	cashier.DELETE("/sessions/:id/items/:productId", h.Checkout.RemoveItem)
	cashier.POST("/sessions/:id/proceed", h.Checkout.Proceed)
	cashier.POST("/sessions/:id/confirm", h.Checkout.Confirm)
	cashier.POST("/sessions/:id/finish", h.Checkout.Finish)
	cashier.POST("/sessions/:id/cancel", h.Checkout.Cancel)
	cashier.GET("/sessions/:id/receipt", h.Checkout.Receipt)
	cashier.POST("/sessions/:id/receipt/share", h.Checkout.ShareReceipt)

	stock := authed.Group("/", middleware.RequireRole(models.RoleInventory))
	stock.POST("/products", h.Inventory.CreateProduct)
	stock.PUT("/products/:id", h.Inventory.UpdateProduct)
	stock.DELETE("/products/:id", h.Inventory.DeleteProduct)
	stock.GET("/products/low-stock", h.Inventory.LowStock)
	stock.POST("/categories", h.Inventory.CreateCategory)
	stock.DELETE("/categories/:id", h.Inventory.DeleteCategory)

	admin := authed.Group("/", middleware.RequireRole(models.RoleAdmin))
	admin.GET("/transactions", h.Reports.ListTransactions)
	admin.GET("/transactions/:id", h.Reports.GetTransaction)
	admin.GET("/reports/summary", h.Reports.Summary)
	admin.GET("/reports/payment-methods", h.Reports.PaymentMethods)
	admin.GET("/reports/daily", h.Reports.Daily)
	admin.GET("/reports/products", h.Reports.Products)
	admin.GET("/reports/insights", h.Reports.Insights)
	if h.Reports.ArchiveEnabled() {
		admin.GET("/reports/archive", h.Reports.Archive)
	}
	admin.GET("/settings/store", h.Settings.GetStore)
	admin.PUT("/settings/store", h.Settings.SaveStore)
	admin.GET("/users", h.Users.List)
	admin.PATCH("/users/:id", h.Users.Update)

	authed.GET("/settings/payment-methods", h.Settings.PaymentMethods)
	authed.GET("/settings/ui", h.Settings.GetUI)
	authed.PUT("/settings/ui", h.Settings.SaveUI)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}
