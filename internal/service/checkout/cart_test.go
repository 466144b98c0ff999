package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
)

var (
	bag = models.Product{ID: "p1", Name: "Tas Anyaman", Price: decimal.NewFromInt(25000), IsActive: true, Stock: 10}
	hat = models.Product{ID: "p2", Name: "Topi Pandan", Price: decimal.NewFromInt(15000), IsActive: true, Stock: 5}
)

func TestCart_AddItemMerges(t *testing.T) {
	c := NewCart()
	c.AddItem(bag)
	c.AddItem(hat)
	c.AddItem(bag)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestCart_SnapshotsPriceAtAdd(t *testing.T) {
	c := NewCart()
	product := bag
	c.AddItem(product)

	product.Price = decimal.NewFromInt(99000)
	c.AddItem(product)

	assert.True(t, c.Lines()[0].Price.Equal(decimal.NewFromInt(25000)))
}

func TestCart_Totals(t *testing.T) {
	c := NewCart()
	c.AddItem(bag)
	c.AddItem(bag)
	c.AddItem(hat)

	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(65000)), c.Subtotal().String())
	assert.True(t, c.Tax().Equal(decimal.NewFromInt(6500)), c.Tax().String())
	assert.True(t, c.Total().Equal(decimal.NewFromInt(71500)), c.Total().String())
}

func TestCart_TaxRounding(t *testing.T) {
	tests := []struct {
		price string
		tax   int64
	}{
		{price: "1005", tax: 101},
		{price: "1004", tax: 100},
		{price: "15", tax: 2},
		{price: "0", tax: 0},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			c := NewCart()
			c.AddItem(models.Product{ID: "x", Price: decimal.RequireFromString(tt.price)})
			assert.True(t, c.Tax().Equal(decimal.NewFromInt(tt.tax)), c.Tax().String())
			assert.True(t, c.Total().Equal(c.Subtotal().Add(c.Tax())))
		})
	}
}

func TestCart_EmptyTotalsAreZero(t *testing.T) {
	c := NewCart()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal().IsZero())
	assert.True(t, c.Tax().IsZero())
	assert.True(t, c.Total().IsZero())
}

func TestCart_ChangeQuantity(t *testing.T) {
	c := NewCart()
	c.AddItem(bag)

	require.NoError(t, c.ChangeQuantity("p1", 4))
	assert.Equal(t, 4, c.Lines()[0].Quantity)

	assert.ErrorIs(t, c.ChangeQuantity("p1", 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.ChangeQuantity("p1", -2), ErrInvalidQuantity)
	assert.Equal(t, 4, c.Lines()[0].Quantity)

	assert.ErrorIs(t, c.ChangeQuantity("missing", 2), ErrLineNotFound)
}

func TestCart_IncrementDecrement(t *testing.T) {
	c := NewCart()
	c.AddItem(bag)

	require.NoError(t, c.Increment("p1"))
	require.NoError(t, c.Decrement("p1"))
	require.NoError(t, c.Decrement("p1"))
	assert.Equal(t, 1, c.Lines()[0].Quantity, "decrement clamps at 1")

	assert.ErrorIs(t, c.Increment("missing"), ErrLineNotFound)
	assert.ErrorIs(t, c.Decrement("missing"), ErrLineNotFound)
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := NewCart()
	c.AddItem(bag)
	c.AddItem(hat)

	assert.True(t, c.RemoveItem("p1"))
	assert.False(t, c.RemoveItem("p1"))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestCart_Sequences(t *testing.T) {
	strap := models.Product{ID: "p3", Name: "Tali Rami", Price: decimal.NewFromInt(5000), IsActive: true, Stock: 20}
	catalog := map[string]models.Product{bag.ID: bag, hat.ID: hat, strap.ID: strap}

	type step struct {
		op  string // add, set, inc, dec, remove
		id  string
		qty int
	}

	tests := []struct {
		name     string
		steps    []step
		want     map[string]int
		subtotal int64
		tax      int64
		total    int64
	}{
		{
			name:     "two bags and three straps",
			steps:    []step{{op: "add", id: "p1"}, {op: "add", id: "p1"}, {op: "add", id: "p3"}, {op: "set", id: "p3", qty: 3}},
			want:     map[string]int{"p1": 2, "p3": 3},
			subtotal: 65000,
			tax:      6500,
			total:    71500,
		},
		{
			name:     "removing the last line then adding starts again at one",
			steps:    []step{{op: "add", id: "p2"}, {op: "inc", id: "p2"}, {op: "inc", id: "p2"}, {op: "remove", id: "p2"}, {op: "add", id: "p2"}},
			want:     map[string]int{"p2": 1},
			subtotal: 15000,
			tax:      1500,
			total:    16500,
		},
		{
			name: "mixed edits",
			steps: []step{
				{op: "add", id: "p1"}, {op: "add", id: "p2"}, {op: "add", id: "p3"},
				{op: "set", id: "p1", qty: 4}, {op: "dec", id: "p1"}, {op: "inc", id: "p3"},
				{op: "remove", id: "p2"}, {op: "dec", id: "p3"}, {op: "dec", id: "p3"}, {op: "add", id: "p1"},
			},
			want:     map[string]int{"p1": 4, "p3": 1},
			subtotal: 105000,
			tax:      10500,
			total:    115500,
		},
		{
			name:     "everything removed",
			steps:    []step{{op: "add", id: "p1"}, {op: "add", id: "p3"}, {op: "remove", id: "p1"}, {op: "remove", id: "p3"}},
			want:     map[string]int{},
			subtotal: 0,
			tax:      0,
			total:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCart()
			for i, s := range tt.steps {
				switch s.op {
				case "add":
					c.AddItem(catalog[s.id])
				case "set":
					require.NoError(t, c.ChangeQuantity(s.id, s.qty))
				case "inc":
					require.NoError(t, c.Increment(s.id))
				case "dec":
					require.NoError(t, c.Decrement(s.id))
				case "remove":
					require.True(t, c.RemoveItem(s.id))
				default:
					t.Fatalf("unknown op %q", s.op)
				}

				sum := decimal.Zero
				for _, l := range c.Lines() {
					sum = sum.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
				}
				assert.True(t, c.Subtotal().Equal(sum), "step %d: subtotal %s, lines sum to %s", i, c.Subtotal(), sum)
			}

			got := make(map[string]int, c.Len())
			for _, l := range c.Lines() {
				got[l.ProductID] = l.Quantity
			}
			assert.Equal(t, tt.want, got)
			assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(tt.subtotal)), c.Subtotal().String())
			assert.True(t, c.Tax().Equal(decimal.NewFromInt(tt.tax)), c.Tax().String())
			assert.True(t, c.Total().Equal(decimal.NewFromInt(tt.total)), c.Total().String())
		})
	}
}
