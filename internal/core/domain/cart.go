package domain

import (
	"fmt"
	"time"
)

// MaxLineQuantity caps a single cart line.
const MaxLineQuantity = 10000

// CartLine is a product reference and a quantity, always >= 1.
type CartLine struct {
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// Cart is an ordered set of lines keyed by product id.
//
// CheckedOutOrderID is set by a successful checkout and cleared by any change
// to the lines, so the same content is never checked out twice.
type Cart struct {
	ID                string     `json:"id"`
	Lines             []CartLine `json:"lines"`
	CheckedOutOrderID string     `json:"checkedOutOrderId,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy safe to hand out of a lock.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Lines = make([]CartLine, len(c.Lines))
	copy(out.Lines, c.Lines)
	return &out
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Line returns the line for productID, if any.
func (c *Cart) Line(productID int64) (CartLine, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}

// Add merges delta into the existing line for productID or appends a new
// line. delta must be positive and the merged quantity may not exceed
// MaxLineQuantity; the cart is left unchanged otherwise.
func (c *Cart) Add(productID int64, delta int, now time.Time) error {
	if delta <= 0 || delta > MaxLineQuantity {
		return fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidInput, MaxLineQuantity)
	}
	if i := c.indexOf(productID); i >= 0 {
		if c.Lines[i].Quantity > MaxLineQuantity-delta {
			return fmt.Errorf("%w: line quantity may not exceed %d", ErrInvalidInput, MaxLineQuantity)
		}
		c.Lines[i].Quantity += delta
	} else {
		c.Lines = append(c.Lines, CartLine{ProductID: productID, Quantity: delta, AddedAt: now})
	}
	c.touch(now)
	return nil
}

// Remove deletes the line for productID. Removing an absent line is a no-op.
func (c *Cart) Remove(productID int64, now time.Time) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	c.touch(now)
	return true
}

// SetQuantity replaces the quantity of an existing line. qty <= 0 removes
// the line and qty above MaxLineQuantity is rejected. An absent line with
// qty > 0 is left alone because there is no product to attach; the returned
// bool reports whether anything changed.
func (c *Cart) SetQuantity(productID int64, qty int, now time.Time) (bool, error) {
	if qty <= 0 {
		return c.Remove(productID, now), nil
	}
	if qty > MaxLineQuantity {
		return false, fmt.Errorf("%w: line quantity may not exceed %d", ErrInvalidInput, MaxLineQuantity)
	}
	i := c.indexOf(productID)
	if i < 0 {
		return false, nil
	}
	c.Lines[i].Quantity = qty
	c.touch(now)
	return true, nil
}

// Clear drops every line.
func (c *Cart) Clear(now time.Time) {
	c.Lines = c.Lines[:0]
	c.touch(now)
}

func (c *Cart) touch(now time.Time) {
	c.CheckedOutOrderID = ""
	c.UpdatedAt = now
}
