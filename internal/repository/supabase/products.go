package supabase

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	client "github.com/albaehandicraft/umkmpos/pkg/clients/supabase"
)

// ListProducts returns every product ordered by name.
func (g *Gateway) ListProducts(ctx context.Context) []models.Product {
	var products []models.Product
	query := url.Values{"select": {"*"}, "order": {"name.asc"}}
	if err := g.client.Select(ctx, productsTable, query, &products); err != nil {
		g.logger.Error("failed to fetch products", zap.Error(err))
		return []models.Product{}
	}
	return nonNilProducts(products)
}

// ListProductsByCategory returns the products of one category ordered by name.
func (g *Gateway) ListProductsByCategory(ctx context.Context, category string) []models.Product {
	var products []models.Product
	query := url.Values{
		"select":   {"*"},
		"category": {client.Eq(category)},
		"order":    {"name.asc"},
	}
	if err := g.client.Select(ctx, productsTable, query, &products); err != nil {
		g.logger.Error("failed to fetch products by category", zap.String("category", category), zap.Error(err))
		return []models.Product{}
	}
	return nonNilProducts(products)
}

// GetProduct returns one product or nil.
func (g *Gateway) GetProduct(ctx context.Context, id string) *models.Product {
	product := new(models.Product)
	query := url.Values{"select": {"*"}, "id": {client.Eq(id)}}
	if err := g.client.SelectSingle(ctx, productsTable, query, product); err != nil {
		g.logger.Error("failed to fetch product", zap.String("product_id", id), zap.Error(err))
		return nil
	}
	return product
}

// CreateProduct inserts a product and returns the stored row or nil.
func (g *Gateway) CreateProduct(ctx context.Context, product models.Product) *models.Product {
	product.ID = ""
	product.CreatedAt, product.UpdatedAt = nil, nil

	created := new(models.Product)
	if err := g.client.InsertSingle(ctx, productsTable, product, created); err != nil {
		g.logger.Error("failed to create product", zap.String("name", product.Name), zap.Error(err))
		return nil
	}
	return created
}

// UpdateProduct overwrites the editable fields of a product and returns the stored row or nil.
func (g *Gateway) UpdateProduct(ctx context.Context, id string, product models.Product) *models.Product {
	product.ID = ""
	product.CreatedAt, product.UpdatedAt = nil, nil

	updated := new(models.Product)
	query := url.Values{"id": {client.Eq(id)}}
	if err := g.client.UpdateSingle(ctx, productsTable, query, product, updated); err != nil {
		g.logger.Error("failed to update product", zap.String("product_id", id), zap.Error(err))
		return nil
	}
	return updated
}

// DeleteProduct removes a product and reports success.
func (g *Gateway) DeleteProduct(ctx context.Context, id string) bool {
	if err := g.client.Delete(ctx, productsTable, url.Values{"id": {client.Eq(id)}}); err != nil {
		g.logger.Error("failed to delete product", zap.String("product_id", id), zap.Error(err))
		return false
	}
	return true
}

// ListCategories returns every category ordered by name.
func (g *Gateway) ListCategories(ctx context.Context) []models.Category {
	var categories []models.Category
	query := url.Values{"select": {"*"}, "order": {"name.asc"}}
	if err := g.client.Select(ctx, categoriesTable, query, &categories); err != nil {
		g.logger.Error("failed to fetch categories", zap.Error(err))
		return []models.Category{}
	}
	if categories == nil {
		return []models.Category{}
	}
	return categories
}

// CreateCategory inserts a category and returns the stored row or nil.
func (g *Gateway) CreateCategory(ctx context.Context, name string) *models.Category {
	created := new(models.Category)
	if err := g.client.InsertSingle(ctx, categoriesTable, models.Category{Name: name}, created); err != nil {
		g.logger.Error("failed to create category", zap.String("name", name), zap.Error(err))
		return nil
	}
	return created
}

// DeleteCategory removes a category and reports success.
func (g *Gateway) DeleteCategory(ctx context.Context, id string) bool {
	if err := g.client.Delete(ctx, categoriesTable, url.Values{"id": {client.Eq(id)}}); err != nil {
		g.logger.Error("failed to delete category", zap.String("category_id", id), zap.Error(err))
		return false
	}
	return true
}

func nonNilProducts(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
