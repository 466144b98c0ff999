package checkout

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/pkg/currency"
)

// TaxRate is the flat sales tax applied to every cart.
var TaxRate = decimal.New(10, -2)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Line is one product in the cart. Name, price and image are copied from the
// product when it is first added.
type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

// Total returns price multiplied by quantity.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the unpersisted set of lines of the sale in progress. Lines are
// keyed by product id and keep insertion order.
type Cart struct {
	lines []Line
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem adds one unit of product, merging with an existing line.
func (c *Cart) AddItem(product models.Product) {
	if i := c.index(product.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  1,
	})
}

// ChangeQuantity sets the quantity of a line.
func (c *Cart) ChangeQuantity(lineID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	i := c.index(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines[i].Quantity = quantity
	return nil
}

// Increment adds one unit to a line.
func (c *Cart) Increment(lineID string) error {
	i := c.index(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.lines[i].Quantity++
	return nil
}

// Decrement removes one unit from a line, never going below 1.
func (c *Cart) Decrement(lineID string) error {
	i := c.index(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
	}
	return nil
}

// RemoveItem deletes a line and reports whether it existed.
func (c *Cart) RemoveItem(lineID string) bool {
	i := c.index(lineID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	return append([]Line{}, c.lines...)
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) Clear() { c.lines = nil }

// Subtotal is the sum of line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// Tax is the subtotal times TaxRate, rounded to whole rupiah.
func (c *Cart) Tax() decimal.Decimal {
	return currency.Round(c.Subtotal().Mul(TaxRate))
}

// Total is subtotal plus tax.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Tax())
}

func (c *Cart) index(productID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}
