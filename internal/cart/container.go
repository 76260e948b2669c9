// Package cart holds the active cart: the mutable set of selected items
// and quantities prior to checkout. The container is owned by the
// application, replacing the shared global store the till UI reads from;
// views observe it through Subscribe.
package cart

import (
	"sync"

	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

// Line is one item-quantity entry in the cart. Name and price are copied
// from the catalog item (or a price override) when the line is created.
type Line struct {
	ItemID    int64       `json:"item_id"`
	Name      string      `json:"name"`
	UnitPrice money.Cents `json:"unit_price"`
	Quantity  int         `json:"quantity"`
}

// Snapshot is a copy-by-value view of the cart state.
type Snapshot struct {
	Lines []Line      `json:"lines"`
	Total money.Cents `json:"total"`
}

// Container accumulates cart lines and derives the running total. The
// total is recomputed after every mutation, never stored independently
// of its derivation.
type Container struct {
	mu    sync.Mutex
	lines []Line
	total money.Cents

	subMu sync.Mutex
	subs  map[int]func(Snapshot)
	subID int
}

// New returns an empty cart container.
func New() *Container {
	return &Container{subs: map[int]func(Snapshot){}}
}

// AddItem increments the quantity of an existing line for the item, or
// appends a fresh quantity-1 line. priceOverride supports price-on-demand
// items whose price is not fixed by the catalog. Always succeeds.
func (c *Container) AddItem(item models.Item, priceOverride *money.Cents) {
	c.mu.Lock()

	found := false
	for i := range c.lines {
		if c.lines[i].ItemID == item.ID {
			c.lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		price := item.UnitPriceCents
		if priceOverride != nil {
			price = *priceOverride
		}
		c.lines = append(c.lines, Line{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: price,
			Quantity:  1,
		})
	}

	c.recompute()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// SetQuantity sets the quantity of the item's line; a quantity of zero or
// less removes the line. No-op when the item has no line.
func (c *Container) SetQuantity(itemID int64, quantity int) {
	c.mu.Lock()

	idx := -1
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return
	}

	if quantity <= 0 {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	} else {
		c.lines[idx].Quantity = quantity
	}

	c.recompute()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// Clear empties all lines and resets the total to zero.
func (c *Container) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.total = 0
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// Snapshot returns a copy of the current cart state.
func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Total returns the current running total.
func (c *Container) Total() money.Cents {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Empty reports whether the cart has no lines.
func (c *Container) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Subscribe registers a change observer and returns its remover. The
// observer is called with a snapshot after every mutation.
func (c *Container) Subscribe(fn func(Snapshot)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.subID
	c.subID++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Container) recompute() {
	var total money.Cents
	for _, line := range c.lines {
		total += line.UnitPrice * money.Cents(line.Quantity)
	}
	c.total = total
}

func (c *Container) snapshotLocked() Snapshot {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return Snapshot{Lines: lines, Total: c.total}
}

func (c *Container) notify(snap Snapshot) {
	c.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
