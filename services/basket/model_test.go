package basket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemJSON(t *testing.T) {

	t.Run("Unknown fields are kept", func(t *testing.T) {
		// given
		input := `{"productId":"rose","name":"Red Rose","price":15000,"quantity":2,"image":"https://cdn.example.com/rose.jpg","extras":["vase"]}`

		// when
		item := Item{}
		err := json.Unmarshal([]byte(input), &item)
		require.NoError(t, err)
		output, err := json.Marshal(item)

		// then
		assert.NoError(t, err)
		assert.Equal(t, Item{
			ProductID: "rose", Name: "Red Rose", Price: 15000, Quantity: 2,
			Extra: map[string]json.RawMessage{
				"image":  json.RawMessage(`"https://cdn.example.com/rose.jpg"`),
				"extras": json.RawMessage(`["vase"]`),
			},
		}, item)
		assert.JSONEq(t, input, string(output))
	})

	t.Run("Known fields win over extra fields", func(t *testing.T) {
		item := Item{ProductID: "rose", Name: "Red Rose", Price: 1, Extra: map[string]json.RawMessage{"name": json.RawMessage(`"stale"`)}}

		output, err := json.Marshal(item)

		assert.NoError(t, err)
		assert.JSONEq(t, `{"productId":"rose","name":"Red Rose","price":1}`, string(output))
	})

	t.Run("Wrong type", func(t *testing.T) {
		item := Item{}
		err := json.Unmarshal([]byte(`{"productId":"rose","price":"expensive"}`), &item)
		assert.Error(t, err)
	})
}

func TestAggregateJSON(t *testing.T) {
	t.Run("Empty cart", func(t *testing.T) {
		output, err := json.Marshal(Cart.Empty())
		assert.NoError(t, err)
		assert.JSONEq(t, `{"items":[],"total":0}`, string(output))
	})

	t.Run("Empty wishlist", func(t *testing.T) {
		output, err := json.Marshal(Wishlist.Empty())
		assert.NoError(t, err)
		assert.JSONEq(t, `{"items":[]}`, string(output))
	})

	t.Run("Nil items", func(t *testing.T) {
		output, err := json.Marshal(Aggregate{})
		assert.NoError(t, err)
		assert.JSONEq(t, `{"items":[]}`, string(output))
	})

	t.Run("Scenario", func(t *testing.T) {
		cart, _ := addItem(Cart, Cart.Empty(), Item{ProductID: "rose", Name: "Red Rose", Price: 15000, Quantity: 2})
		output, err := json.Marshal(cart)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"items":[{"productId":"rose","name":"Red Rose","price":15000,"quantity":2}],"total":30000}`, string(output))
	})
}

func TestKind(t *testing.T) {
	assert.Equal(t, "cart:u1", Cart.Key("u1"))
	assert.Equal(t, "wishlist:u1", Wishlist.Key("u1"))
}
