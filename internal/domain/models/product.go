package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item with its stock position.
type Product struct {
	ID           string          `json:"id,omitempty"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Image        string          `json:"image,omitempty"`
	Category     string          `json:"category"`
	SKU          string          `json:"sku,omitempty"`
	Stock        int             `json:"stock"`
	ReorderLevel int             `json:"reorder_level"`
	Description  string          `json:"description,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    *time.Time      `json:"created_at,omitempty"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// IsLowStock reports whether the product reached its reorder threshold.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.ReorderLevel
}

// Category groups products on the cashier grid and in reports.
type Category struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
