package basketevents

const (
	TopicName = "basket"

	itemAddedSuffix   = ".item.added"
	itemRemovedSuffix = ".item.removed"
	itemUpdatedSuffix = ".item.updated"
	clearedSuffix     = ".cleared"
)

// Kind is "cart" or "wishlist" and prefixes the event type name.

type ItemAdded struct {
	Kind      string
	UserID    string
	ProductID string
	Quantity  int
}

func (e ItemAdded) GetEventTypeName() string {
	return e.Kind + itemAddedSuffix
}

func (e ItemAdded) GetAggregateName() string {
	return e.Kind + ":" + e.UserID
}

type ItemRemoved struct {
	Kind      string
	UserID    string
	ProductID string
}

func (e ItemRemoved) GetEventTypeName() string {
	return e.Kind + itemRemovedSuffix
}

func (e ItemRemoved) GetAggregateName() string {
	return e.Kind + ":" + e.UserID
}

type ItemUpdated struct {
	Kind      string
	UserID    string
	ProductID string
	Quantity  int
}

func (e ItemUpdated) GetEventTypeName() string {
	return e.Kind + itemUpdatedSuffix
}

func (e ItemUpdated) GetAggregateName() string {
	return e.Kind + ":" + e.UserID
}

type Cleared struct {
	Kind   string
	UserID string
}

func (e Cleared) GetEventTypeName() string {
	return e.Kind + clearedSuffix
}

func (e Cleared) GetAggregateName() string {
	return e.Kind + ":" + e.UserID
}
