package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrItemNotInCart is returned when a line operation targets a product
	// the cart does not hold.
	ErrItemNotInCart = errors.New("item not in cart")
	// ErrInvalidDirection is returned by Adjust for anything but inc or dec.
	ErrInvalidDirection = errors.New("direction must be inc or dec")
)

// Direction is a single-step quantity change.
type Direction string

const (
	Increment Direction = "inc"
	Decrement Direction = "dec"
)

// CartItem is one cart line. There is at most one line per product id and
// Qty is always at least 1.
type CartItem struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
	Qty   int     `json:"qty"`
}

// Cart is the per-session cart. Items keep insertion order.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart returns an empty cart at version 0.
func NewCart(sessionID string, now time.Time) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) index(id int) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add puts one unit of p in the cart: an existing line gets qty+1 and the
// product's current title, price and image; otherwise a line with qty 1 is
// appended.
func (c *Cart) Add(p Product) {
	if i := c.index(p.ID); i >= 0 {
		c.Items[i].Qty++
		c.Items[i].Title = p.Title
		c.Items[i].Price = p.Price
		c.Items[i].Image = p.Image
		return
	}
	c.Items = append(c.Items, CartItem{
		ID:    p.ID,
		Title: p.Title,
		Price: p.Price,
		Image: p.Image,
		Qty:   1,
	})
}

// Remove drops the line for id and reports whether there was one.
func (c *Cart) Remove(id int) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// Contains reports whether the cart has a line for id.
func (c *Cart) Contains(id int) bool {
	return c.index(id) >= 0
}

// Quantity returns the line quantity for id, or 0.
func (c *Cart) Quantity(id int) int {
	if i := c.index(id); i >= 0 {
		return c.Items[i].Qty
	}
	return 0
}

// Adjust moves the quantity of id one step. A line that reaches zero is
// removed.
func (c *Cart) Adjust(id int, dir Direction) error {
	var delta int
	switch dir {
	case Increment:
		delta = 1
	case Decrement:
		delta = -1
	default:
		return ErrInvalidDirection
	}

	i := c.index(id)
	if i < 0 {
		return ErrItemNotInCart
	}
	c.Items[i].Qty += delta
	if c.Items[i].Qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	return nil
}

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Qty
	}
	return n
}

// TotalValue is Σ qty × price, rounded to cents.
func (c *Cart) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	return total.Round(2)
}

// Clone returns a deep copy.
func (c *Cart) Clone() *Cart {
	cpy := *c
	cpy.Items = make([]CartItem, len(c.Items))
	copy(cpy.Items, c.Items)
	return &cpy
}
