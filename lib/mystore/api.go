package mystore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/floresvictoria/shopbackend/lib/myconfig"
	"github.com/floresvictoria/shopbackend/lib/mylog"
	"github.com/floresvictoria/shopbackend/lib/mytime"
)

// ErrUnavailable is returned (wrapped) when the store refuses calls because it is
// considered down.
var ErrUnavailable = errors.New("store unavailable")

//go:generate mockgen -source=api.go -package mystore -destination store_mock.go Store
type Store interface {
	// Get returns the value stored under key; found is false for absent or expired keys.
	Get(c context.Context, key string) (value []byte, found bool, err error)
	// Put stores value under key; the key expires ttl after this call.
	Put(c context.Context, key string, value []byte, ttl time.Duration) error
	Ping(c context.Context) error
}

// New creates the backend selected by configuration, guarded by a circuit breaker.
// The returned cleanup releases the underlying client.
func New(c context.Context, cfg myconfig.Config, nower mytime.Nower) (Store, func(), error) {
	logger := mylog.New("store")

	var (
		store   Store
		cleanup func()
		err     error
	)
	switch cfg.Store.Backend {
	case myconfig.BackendRedis:
		store, cleanup, err = newRedisStore(c, cfg.Store, logger)
	case myconfig.BackendDatastore:
		store, cleanup, err = newDatastoreStore(c, cfg.GoogleProject, cfg.Store.DatastoreKind, nower)
	case myconfig.BackendMemory:
		store, cleanup, err = NewInMemoryStore(nower)
	default:
		err = fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
	if err != nil {
		return nil, func() {}, err
	}

	logger.Log(c, "", mylog.SeverityInfo, "Using %s store", cfg.Store.Backend)

	return newBreakerStore(cfg.Store.Backend, store, logger), cleanup, nil
}
