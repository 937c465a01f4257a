package basket

import (
	"encoding/json"
	"fmt"
)

// Item is one product entry of a cart or wishlist. Fields other than the four
// known ones are kept opaquely in Extra and written back unchanged.
type Item struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
	Extra     map[string]json.RawMessage
}

var knownItemFields = []string{"productId", "name", "price", "quantity"}

func (i Item) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(i.Extra)+len(knownItemFields))
	for k, v := range i.Extra {
		fields[k] = v
	}
	fields["productId"] = i.ProductID
	fields["name"] = i.Name
	fields["price"] = i.Price
	if i.Quantity != 0 {
		fields["quantity"] = i.Quantity
	}
	return json.Marshal(fields)
}

func (i *Item) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	err := json.Unmarshal(data, &fields)
	if err != nil {
		return err
	}

	item := Item{}
	if raw, found := fields["productId"]; found {
		if err := json.Unmarshal(raw, &item.ProductID); err != nil {
			return fmt.Errorf("error parsing productId: %s", err)
		}
	}
	if raw, found := fields["name"]; found {
		if err := json.Unmarshal(raw, &item.Name); err != nil {
			return fmt.Errorf("error parsing name: %s", err)
		}
	}
	if raw, found := fields["price"]; found {
		if err := json.Unmarshal(raw, &item.Price); err != nil {
			return fmt.Errorf("error parsing price: %s", err)
		}
	}
	if raw, found := fields["quantity"]; found {
		if err := json.Unmarshal(raw, &item.Quantity); err != nil {
			return fmt.Errorf("error parsing quantity: %s", err)
		}
	}

	for _, k := range knownItemFields {
		delete(fields, k)
	}
	if len(fields) > 0 {
		item.Extra = fields
	}

	*i = item
	return nil
}

// Aggregate is the document stored per user and kind.
type Aggregate struct {
	Items []Item   `json:"items"`
	Total *float64 `json:"total,omitempty"`
}

func (a Aggregate) MarshalJSON() ([]byte, error) {
	type plain Aggregate
	if a.Items == nil {
		a.Items = []Item{}
	}
	return json.Marshal(plain(a))
}

func (a Aggregate) findItem(productID string) (int, bool) {
	for idx, item := range a.Items {
		if item.ProductID == productID {
			return idx, true
		}
	}
	return -1, false
}
