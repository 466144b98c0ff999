package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/service/inventory"
)

// InventoryService manages the product catalogue.
type InventoryService interface {
	List(ctx context.Context, category string) []models.Product
	Get(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, in inventory.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id string, in inventory.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	LowStock(ctx context.Context) []models.Product
	Categories(ctx context.Context) []models.Category
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// InventoryHandler exposes products and categories.
type InventoryHandler struct {
	svc    InventoryService
	logger *zap.Logger
}

func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// ListProducts supports an optional ?category= filter.
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.List(c.Request.Context(), c.Query("category")))
}

func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var in inventory.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	product, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var in inventory.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	product, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.LowStock(c.Request.Context()))
}

func (h *InventoryHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Categories(c.Request.Context()))
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	category, err := h.svc.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *InventoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
