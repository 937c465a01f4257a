package basket

import (
	"time"

	"github.com/floresvictoria/shopbackend/lib/mylog"
	"github.com/floresvictoria/shopbackend/lib/mystore"
)

// Aggregates reads and writes the aggregates of a single kind.
type Aggregates struct {
	kind   Kind
	store  mystore.Store
	ttl    time.Duration
	logger mylog.Logger
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewAggregates(kind Kind, store mystore.Store, ttl time.Duration) *Aggregates {
	return newAggregates(kind, store, ttl, mylog.New(kind.Name))
}

func newAggregates(kind Kind, store mystore.Store, ttl time.Duration, logger mylog.Logger) *Aggregates {
	return &Aggregates{
		kind:   kind,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func (a *Aggregates) Kind() Kind {
	return a.kind
}
