package basket

type MergePolicy int

const (
	// MergeQuantity adds the quantity of a repeated product to the existing line.
	MergeQuantity MergePolicy = iota
	// Dedup ignores a repeated product altogether.
	Dedup
)

// Kind parameterizes the keyed aggregate: how repeated products are merged and
// whether a total is maintained.
type Kind struct {
	Name        string
	Merge       MergePolicy
	TracksTotal bool
}

var (
	Cart     = Kind{Name: "cart", Merge: MergeQuantity, TracksTotal: true}
	Wishlist = Kind{Name: "wishlist", Merge: Dedup, TracksTotal: false}
)

func (k Kind) Key(userID string) string {
	return k.Name + ":" + userID
}

func (k Kind) Empty() Aggregate {
	agg := Aggregate{Items: []Item{}}
	if k.TracksTotal {
		total := 0.0
		agg.Total = &total
	}
	return agg
}

func (k Kind) String() string {
	return k.Name
}
