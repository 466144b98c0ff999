package inventory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/pkg/validate"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSaveFailed      = errors.New("failed to save to backend")
)

// Store is the catalogue persistence the inventory needs.
type Store interface {
	ListProducts(ctx context.Context) []models.Product
	ListProductsByCategory(ctx context.Context, category string) []models.Product
	GetProduct(ctx context.Context, id string) *models.Product
	CreateProduct(ctx context.Context, product models.Product) *models.Product
	UpdateProduct(ctx context.Context, id string, product models.Product) *models.Product
	DeleteProduct(ctx context.Context, id string) bool
	ListCategories(ctx context.Context) []models.Category
	CreateCategory(ctx context.Context, name string) *models.Category
	DeleteCategory(ctx context.Context, id string) bool
}

// ProductInput is the editable part of a product. IsActive defaults to true.
type ProductInput struct {
	Name         string          `json:"name" binding:"required"`
	SKU          string          `json:"sku" binding:"required"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price" binding:"gt=0"`
	Cost         decimal.Decimal `json:"cost" binding:"gte=0"`
	Stock        int             `json:"stock" binding:"gte=0"`
	ReorderLevel int             `json:"reorder_level" binding:"gte=0"`
	Image        string          `json:"image"`
	Description  string          `json:"description"`
	IsActive     *bool           `json:"is_active"`
}

type categoryInput struct {
	Name string `json:"name" binding:"required"`
}

// Validate checks the trimmed input before it reaches the backend.
func (in ProductInput) Validate() error {
	return validate.Struct(in.trimmed())
}

func (in ProductInput) trimmed() ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Category = strings.TrimSpace(in.Category)
	return in
}

func (in ProductInput) product() models.Product {
	in = in.trimmed()
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return models.Product{
		Name:         in.Name,
		SKU:          in.SKU,
		Category:     in.Category,
		Price:        in.Price,
		Cost:         in.Cost,
		Stock:        in.Stock,
		ReorderLevel: in.ReorderLevel,
		Image:        in.Image,
		Description:  in.Description,
		IsActive:     active,
	}
}

// Service manages products and categories.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService wires a new inventory service instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// List returns all products, or those of one category when category is set.
func (s *Service) List(ctx context.Context, category string) []models.Product {
	if category != "" {
		return s.store.ListProductsByCategory(ctx, category)
	}
	return s.store.ListProducts(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Product, error) {
	p := s.store.GetProduct(ctx, id)
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// Create validates and stores a new product.
func (s *Service) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	created := s.store.CreateProduct(ctx, in.product())
	if created == nil {
		return nil, ErrSaveFailed
	}
	s.logger.Info("product created", zap.String("product_id", created.ID), zap.String("sku", created.SKU))
	return created, nil
}

// Update validates and overwrites the editable fields of a product.
func (s *Service) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if s.store.GetProduct(ctx, id) == nil {
		return nil, ErrProductNotFound
	}
	updated := s.store.UpdateProduct(ctx, id, in.product())
	if updated == nil {
		return nil, ErrSaveFailed
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !s.store.DeleteProduct(ctx, id) {
		return ErrSaveFailed
	}
	s.logger.Info("product deleted", zap.String("product_id", id))
	return nil
}

// LowStock returns active products at or below their reorder level, lowest stock first.
func (s *Service) LowStock(ctx context.Context) []models.Product {
	low := make([]models.Product, 0)
	for _, p := range s.store.ListProducts(ctx) {
		if p.IsActive && p.IsLowStock() {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	return low
}

func (s *Service) Categories(ctx context.Context) []models.Category {
	return s.store.ListCategories(ctx)
}

// CreateCategory stores a named category.
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if err := validate.Struct(categoryInput{Name: name}); err != nil {
		return nil, err
	}
	created := s.store.CreateCategory(ctx, name)
	if created == nil {
		return nil, ErrSaveFailed
	}
	return created, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if !s.store.DeleteCategory(ctx, id) {
		return ErrSaveFailed
	}
	return nil
}
