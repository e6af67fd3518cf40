package session

import (
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/catalog"
	"github.com/imrishuroy/go-restaurant-orderboard/internal/orders"
)

// Line is a product snapshot and how many of it are in the cart. Quantity is always >= 1.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart keeps lines in the order products were first added.
type Cart struct {
	lines []Line
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add increments the quantity of p, inserting it with quantity 1 when absent.
func (c *Cart) Add(p catalog.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: 1})
}

// AddN adds n of p at once. n <= 0 is a no-op.
func (c *Cart) AddN(p catalog.Product, n int) {
	if n <= 0 {
		return
	}
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity += n
		return
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: n})
}

// SetQuantity sets the quantity of a line; n <= 0 removes it. Unknown ids are ignored.
func (c *Cart) SetQuantity(productID, n int) {
	if n <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.lines[i].Quantity = n
	}
}

// Remove deletes the line for productID.
func (c *Cart) Remove(productID int) {
	if i := c.index(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Total is Σ unit price × quantity over the lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Count is the number of distinct lines.
func (c *Cart) Count() int { return len(c.lines) }

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool { return len(c.lines) == 0 }

// Reset empties the cart.
func (c *Cart) Reset() { c.lines = nil }

// Items snapshots the lines as order items.
func (c *Cart) Items() []orders.Item {
	items := make([]orders.Item, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, orders.Item{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     l.Product.Price,
			Quantity:  l.Quantity,
		})
	}
	return items
}

func (c *Cart) index(productID int) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}
