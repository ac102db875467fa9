// Package cart implements the session shopping cart: an ordered set of typed
// line items with structural equality and a lossless wire format.
package cart

import "github.com/shopspring/decimal"

// Cart holds the session's line items in insertion order.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(item Item) int {
	for i, existing := range c.items {
		if existing.Equal(item) {
			return i
		}
	}
	return -1
}

// Add appends the item unless a structurally equal line already exists.
// Reports whether the cart changed.
func (c *Cart) Add(item Item) bool {
	if item == nil || c.indexOf(item) >= 0 {
		return false
	}
	c.items = append(c.items, item)
	return true
}

// Remove drops the structurally matching line. Reports whether the cart
// changed.
func (c *Cart) Remove(item Item) bool {
	idx := c.indexOf(item)
	if idx < 0 {
		return false
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return true
}

// EditMeta updates the metadata of the matching line in place. Only
// subscription lines carry editable metadata (the start number). Reports
// whether the target line was found with applicable metadata; an edit to
// the current value is a found no-op.
func (c *Cart) EditMeta(item Item, meta map[string]any) bool {
	idx := c.indexOf(item)
	if idx < 0 {
		return false
	}

	sub, ok := c.items[idx].(SubscriptionItem)
	if !ok {
		return false
	}
	start, ok := intFromMeta(meta, "start")
	if !ok || start < 0 {
		return false
	}

	updated := sub
	updated.Start = start
	if updated.Equal(sub) {
		return true
	}
	// Editing into a line that already exists would create a duplicate.
	if c.indexOf(updated) >= 0 {
		return false
	}
	c.items[idx] = updated
	return true
}

// Count returns the number of lines.
func (c *Cart) Count() int {
	return len(c.items)
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Items returns the lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Issues returns the issue lines in insertion order.
func (c *Cart) Issues() []IssueItem {
	var out []IssueItem
	for _, item := range c.items {
		if issue, ok := item.(IssueItem); ok {
			out = append(out, issue)
		}
	}
	return out
}

// Subscriptions returns the subscription lines in insertion order.
func (c *Cart) Subscriptions() []SubscriptionItem {
	var out []SubscriptionItem
	for _, item := range c.items {
		if sub, ok := item.(SubscriptionItem); ok {
			out = append(out, sub)
		}
	}
	return out
}

// TotalPrice sums the current price of every line.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price())
	}
	return total
}
