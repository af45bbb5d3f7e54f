package domain

import (
	"fmt"
	"math"
)

// MaxPrice is the highest unit price the catalog accepts.
const MaxPrice = 1_000_000

// Product is a catalog entry. ID is assigned by the catalog and never reused.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// ProductPatch carries a partial product update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Category    *string
	Description *string
	Image       *string
}

// Apply returns a copy of p with the patch fields applied.
func (pp ProductPatch) Apply(p Product) Product {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Image != nil {
		p.Image = *pp.Image
	}
	return p
}

// Cents converts a decimal amount to integer minor units. NaN maps to zero
// and out of range amounts saturate at the int64 bounds.
func Cents(amount float64) int64 {
	c := math.Round(amount * 100)
	switch {
	case math.IsNaN(c):
		return 0
	case c >= math.MaxInt64:
		return math.MaxInt64
	case c <= math.MinInt64:
		return math.MinInt64
	}
	return int64(c)
}

// LineCents returns price times qty in minor units, failing on overflow.
func LineCents(price float64, qty int) (int64, error) {
	unit := Cents(price)
	q := int64(qty)
	if unit == 0 || q == 0 {
		return 0, nil
	}
	if unit < 0 || q < 0 || unit > math.MaxInt64/q {
		return 0, fmt.Errorf("%w: line total out of range", ErrInvalidInput)
	}
	return unit * q, nil
}

// AddCents sums two non-negative amounts, failing on overflow.
func AddCents(a, b int64) (int64, error) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, fmt.Errorf("%w: total out of range", ErrInvalidInput)
	}
	return a + b, nil
}

// FromCents converts minor units back to a decimal amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
