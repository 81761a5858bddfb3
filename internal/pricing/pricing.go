// Package pricing resolves the charged price of a menu item and keeps the
// running cart of an open sale.
package pricing

import (
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/domain"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
)

// EffectivePrice is the promo price when one is set and positive, otherwise
// the list price.
func EffectivePrice(item domain.MenuItem) int64 {
	if item.PromoPrice != nil && *item.PromoPrice > 0 {
		return *item.PromoPrice
	}
	return item.Price
}

// Totals are integer rupiah sums over a set of cart lines.
type Totals struct {
	TotalAmount int64 `json:"totalAmount"`
	TotalItems  int   `json:"totalItems"`
	TotalHPP    int64 `json:"totalHpp"`
	TotalProfit int64 `json:"totalProfit"`
}

// LineTotals sums charged price, hpp and quantity over lines.
func LineTotals(lines []domain.CartLine) Totals {
	var t Totals
	for _, l := range lines {
		qty := int64(l.Quantity)
		t.TotalAmount += l.Price * qty
		t.TotalHPP += l.HPP * qty
		t.TotalItems += l.Quantity
	}
	t.TotalProfit = t.TotalAmount - t.TotalHPP
	return t
}

// Cart is the ordered list of lines for one sale. The zero value is an
// empty cart. Not safe for concurrent use; the checkout session guards it.
type Cart struct {
	lines []domain.CartLine
}

// Add puts one unit of item in the cart. A line already present for the same
// id is incremented and keeps the price it was added with.
func (c *Cart) Add(item domain.MenuItem) {
	for i := range c.lines {
		if c.lines[i].ID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	snapshot := item
	snapshot.Price = EffectivePrice(item)
	c.lines = append(c.lines, domain.CartLine{
		MenuItem:      snapshot,
		Quantity:      1,
		OriginalPrice: item.Price,
	})
}

// UpdateQuantity shifts a line's quantity by delta, clamping at zero. Lines
// that reach zero are dropped. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, delta int) {
	for i := range c.lines {
		if c.lines[i].ID != id {
			continue
		}
		qty := max(0, c.lines[i].Quantity+delta)
		if qty == 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
		c.lines[i].Quantity = qty
		return
	}
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Clear() { c.lines = nil }

func (c *Cart) Totals() Totals { return LineTotals(c.lines) }

// FilterByCategory returns the items of one category, or all of them for
// CategoryAll and the empty string.
func FilterByCategory(items []domain.MenuItem, category string) []domain.MenuItem {
	if category == "" || category == enum.CategoryAll {
		return items
	}
	out := make([]domain.MenuItem, 0, len(items))
	for _, it := range items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}
