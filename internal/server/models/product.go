package models

import (
	"slices"
	"time"
)

// Item is one physical unit of a product. Items have no identity of their
// own; they are addressed by position in the product's item list.
type Item struct {
	ExpirationDate time.Time `json:"expiration_date"`
}

// Product is an inventory record owned by exactly one user. EAN is an
// optional 13-character business identifier, unique per owner when set.
// Items is kept sorted ascending by expiration date after every insertion
// or in-place update (not after deletion).
type Product struct {
	ID          string
	UserID      string
	EAN         string
	Name        string
	Description string
	Items       []Item
	CreatedAt   time.Time
}

// ProductPatch is a partial update of product fields. Nil fields are left
// untouched.
type ProductPatch struct {
	EAN         *string
	Name        *string
	Description *string
}

// SortItems orders items ascending by expiration date. The sort is stable:
// items sharing a date keep their relative insertion order.
func SortItems(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		return a.ExpirationDate.Compare(b.ExpirationDate)
	})
}
