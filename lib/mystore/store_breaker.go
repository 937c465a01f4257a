package mystore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"github.com/floresvictoria/shopbackend/lib/mylog"
)

type breakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

func newBreakerStore(name string, next Store, logger mylog.Logger) *breakerStore {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Log(context.Background(), "", mylog.SeverityWarn, "Circuit breaker %s changed from %s to %s", name, from, to)
		},
		// A cancelled request says nothing about the health of the store.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &breakerStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(st),
	}
}

type getResult struct {
	value []byte
	found bool
}

func (s *breakerStore) Get(c context.Context, key string) ([]byte, bool, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		value, found, err := s.next.Get(c, key)
		return getResult{value: value, found: found}, err
	})
	if err != nil {
		return nil, false, translateBreakerError(err)
	}
	r := result.(getResult)
	return r.value, r.found, nil
}

func (s *breakerStore) Put(c context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Put(c, key, value, ttl)
	})
	return translateBreakerError(err)
}

func (s *breakerStore) Ping(c context.Context) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Ping(c)
	})
	return translateBreakerError(err)
}

func translateBreakerError(err error) error {
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return errors.Wrap(ErrUnavailable, err.Error())
	}
	return err
}
