package basketevents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventNames(t *testing.T) {
	assert.Equal(t, "cart.item.added", ItemAdded{Kind: "cart"}.GetEventTypeName())
	assert.Equal(t, "wishlist.item.removed", ItemRemoved{Kind: "wishlist"}.GetEventTypeName())
	assert.Equal(t, "cart.item.updated", ItemUpdated{Kind: "cart"}.GetEventTypeName())
	assert.Equal(t, "wishlist.cleared", Cleared{Kind: "wishlist"}.GetEventTypeName())
	assert.Equal(t, "cart:u1", Cleared{Kind: "cart", UserID: "u1"}.GetAggregateName())
}
