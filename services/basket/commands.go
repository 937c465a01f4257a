package basket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/floresvictoria/shopbackend/lib/myerrors"
	"github.com/floresvictoria/shopbackend/lib/mylog"
)

// Concurrent mutations for the same user are not serialized: each one reads,
// transforms and writes, so the last write wins.

func (a *Aggregates) Get(c context.Context, userID string) (Aggregate, error) {
	a.logger.Log(c, userID, mylog.SeverityDebug, "Fetch %s of user %s", a.kind, userID)
	return a.load(c, userID)
}

func (a *Aggregates) AddItem(c context.Context, userID string, item Item) (Aggregate, error) {
	agg, _, err := a.addItem(c, userID, item)
	return agg, err
}

// addItem also reports whether anything was written.
func (a *Aggregates) addItem(c context.Context, userID string, item Item) (Aggregate, bool, error) {
	if item.ProductID == "" {
		return Aggregate{}, false, myerrors.NewInvalidInputError(fmt.Errorf("productId is required"))
	}

	current, err := a.load(c, userID)
	if err != nil {
		return Aggregate{}, false, err
	}

	updated, changed := addItem(a.kind, current, item)
	if !changed {
		a.logger.Log(c, userID, mylog.SeverityInfo, "Product %s already in %s of user %s", item.ProductID, a.kind, userID)
		return current, false, nil
	}

	a.logger.Log(c, userID, mylog.SeverityInfo, "Add product %s to %s of user %s", item.ProductID, a.kind, userID)

	saved, err := a.save(c, userID, updated)
	if err != nil {
		return Aggregate{}, false, err
	}
	return saved, true, nil
}

func (a *Aggregates) RemoveItem(c context.Context, userID string, productID string) (Aggregate, error) {
	current, err := a.load(c, userID)
	if err != nil {
		return Aggregate{}, err
	}

	a.logger.Log(c, userID, mylog.SeverityInfo, "Remove product %s from %s of user %s", productID, a.kind, userID)

	return a.save(c, userID, removeItem(a.kind, current, productID))
}

// UpdateQuantity sets the quantity of a line that is already present; zero removes it.
func (a *Aggregates) UpdateQuantity(c context.Context, userID string, productID string, quantity int) (Aggregate, error) {
	agg, _, err := a.updateQuantity(c, userID, productID, quantity)
	return agg, err
}

// updateQuantity also reports whether anything was written.
func (a *Aggregates) updateQuantity(c context.Context, userID string, productID string, quantity int) (Aggregate, bool, error) {
	if a.kind.Merge != MergeQuantity {
		return Aggregate{}, false, myerrors.NewNotImplementedError(fmt.Errorf("%s has no quantities", a.kind))
	}
	if quantity < 0 {
		return Aggregate{}, false, myerrors.NewInvalidInputError(fmt.Errorf("quantity must not be negative"))
	}

	current, err := a.load(c, userID)
	if err != nil {
		return Aggregate{}, false, err
	}

	updated, found := updateQuantity(a.kind, current, productID, quantity)
	if !found {
		if quantity == 0 {
			return current, false, nil
		}
		return Aggregate{}, false, myerrors.NewNotFoundError(fmt.Errorf("product %s not in %s", productID, a.kind))
	}

	a.logger.Log(c, userID, mylog.SeverityInfo, "Set quantity of product %s in %s of user %s to %d", productID, a.kind, userID, quantity)

	saved, err := a.save(c, userID, updated)
	if err != nil {
		return Aggregate{}, false, err
	}
	return saved, true, nil
}

func (a *Aggregates) Clear(c context.Context, userID string) (Aggregate, error) {
	a.logger.Log(c, userID, mylog.SeverityInfo, "Clear %s of user %s", a.kind, userID)

	return a.save(c, userID, a.kind.Empty())
}

func (a *Aggregates) load(c context.Context, userID string) (Aggregate, error) {
	blob, found, err := a.store.Get(c, a.kind.Key(userID))
	if err != nil {
		return Aggregate{}, myerrors.NewUnavailableError(errors.Wrapf(err, "error reading %s of user %s", a.kind, userID))
	}
	if !found {
		return a.kind.Empty(), nil
	}

	agg := Aggregate{}
	err = json.Unmarshal(blob, &agg)
	if err != nil {
		a.logger.Log(c, userID, mylog.SeverityWarn, "Ignoring unreadable %s of user %s: %s", a.kind, userID, err)
		return a.kind.Empty(), nil
	}

	return normalize(a.kind, agg), nil
}

func (a *Aggregates) save(c context.Context, userID string, agg Aggregate) (Aggregate, error) {
	blob, err := json.Marshal(agg)
	if err != nil {
		return Aggregate{}, myerrors.NewInternalError(errors.Wrapf(err, "error serializing %s of user %s", a.kind, userID))
	}

	err = a.store.Put(c, a.kind.Key(userID), blob, a.ttl)
	if err != nil {
		return Aggregate{}, myerrors.NewUnavailableError(errors.Wrapf(err, "error writing %s of user %s", a.kind, userID))
	}

	return agg, nil
}

// normalize makes a stored document look like one this package writes itself.
func normalize(kind Kind, agg Aggregate) Aggregate {
	if agg.Items == nil {
		agg.Items = []Item{}
	}
	if !kind.TracksTotal {
		agg.Total = nil
	} else if agg.Total == nil {
		total := calculateTotal(agg.Items)
		agg.Total = &total
	}
	return agg
}
