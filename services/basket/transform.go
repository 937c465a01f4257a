package basket

import (
	"github.com/shopspring/decimal"
)

// The functions below never modify their input aggregate.

func addItem(kind Kind, agg Aggregate, item Item) (Aggregate, bool) {
	idx, found := agg.findItem(item.ProductID)
	if found && kind.Merge == Dedup {
		return agg, false
	}

	items := copyItems(agg.Items)
	if found {
		items[idx].Quantity += item.Quantity
	} else {
		items = append(items, item)
	}
	return withItems(kind, items), true
}

func removeItem(kind Kind, agg Aggregate, productID string) Aggregate {
	items := make([]Item, 0, len(agg.Items))
	for _, item := range agg.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return withItems(kind, items)
}

func updateQuantity(kind Kind, agg Aggregate, productID string, quantity int) (Aggregate, bool) {
	idx, found := agg.findItem(productID)
	if !found {
		return agg, false
	}
	if quantity == 0 {
		return removeItem(kind, agg, productID), true
	}
	items := copyItems(agg.Items)
	items[idx].Quantity = quantity
	return withItems(kind, items), true
}

func withItems(kind Kind, items []Item) Aggregate {
	agg := Aggregate{Items: items}
	if kind.TracksTotal {
		total := calculateTotal(items)
		agg.Total = &total
	}
	return agg
}

func calculateTotal(items []Item) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	total, _ := sum.Float64()
	return total
}

func copyItems(items []Item) []Item {
	cpy := make([]Item, len(items), len(items)+1)
	copy(cpy, items)
	return cpy
}
