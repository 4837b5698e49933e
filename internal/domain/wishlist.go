package domain

import "time"

// WishlistItem is a saved product reference.
type WishlistItem struct {
	ID      int       `json:"id"`
	Title   string    `json:"title"`
	Price   float64   `json:"price"`
	AddedAt time.Time `json:"added_at"`
}

// Wishlist is an append-only set of items keyed by product id, in the order
// they were first added.
type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

// Add appends item unless its id is already present. It reports whether the
// wishlist changed.
func (w *Wishlist) Add(item WishlistItem) bool {
	if w.Contains(item.ID) {
		return false
	}
	w.Items = append(w.Items, item)
	return true
}

// Contains reports whether id is on the wishlist.
func (w *Wishlist) Contains(id int) bool {
	for _, item := range w.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}
