package types

import (
	"cmp"
	"slices"
)

// ListItem is implemented by every element of a rendered list section.
type ListItem interface {
	// Order is the sortOrder value, 0 when absent.
	Order() float64
	// Hidden reports whether the item must be excluded from rendering.
	Hidden() bool
}

// ItemMeta carries the ordering and visibility fields shared by most list items.
type ItemMeta struct {
	SortOrder *float64 `json:"sortOrder,omitempty"`
	HideItem  bool     `json:"hideItem,omitempty"`
}

// Order implements ListItem.
func (m ItemMeta) Order() float64 { return orderOf(m.SortOrder) }

// Hidden implements ListItem.
func (m ItemMeta) Hidden() bool { return m.HideItem }

func orderOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Visible filters out hidden items and sorts the rest ascending by Order.
// Items with equal Order keep their input order. The input is not modified.
func Visible[T ListItem](items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !it.Hidden() {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(a.Order(), b.Order())
	})
	return out
}
