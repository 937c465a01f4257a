package mystore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/pkg/errors"

	"github.com/floresvictoria/shopbackend/lib/mytime"
)

// datastoreEntry emulates key expiry, which datastore lacks natively.
type datastoreEntry struct {
	Value     []byte    `datastore:",noindex"`
	ExpiresAt time.Time `datastore:",noindex"`
}

type datastoreStore struct {
	client *datastore.Client
	kind   string
	nower  mytime.Nower
}

func newDatastoreStore(c context.Context, projectID string, kind string, nower mytime.Nower) (*datastoreStore, func(), error) {
	client, err := datastore.NewClient(c, projectID)
	if err != nil {
		return nil, func() {}, fmt.Errorf("error creating datastore-client: %s", err)
	}

	return &datastoreStore{
			client: client,
			kind:   kind,
			nower:  nower,
		}, func() {
			client.Close()
		}, nil
}

func (s *datastoreStore) Get(c context.Context, key string) ([]byte, bool, error) {
	entry := datastoreEntry{}
	err := s.client.Get(c, datastore.NameKey(s.kind, key, nil), &entry)
	if err != nil {
		if err == datastore.ErrNoSuchEntity {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "error fetching entity %s with key %s", s.kind, key)
	}

	if !s.nower.Now().Before(entry.ExpiresAt) {
		return nil, false, nil
	}

	return entry.Value, true, nil
}

func (s *datastoreStore) Put(c context.Context, key string, value []byte, ttl time.Duration) error {
	entry := datastoreEntry{
		Value:     value,
		ExpiresAt: s.nower.Now().Add(ttl),
	}
	_, err := s.client.Put(c, datastore.NameKey(s.kind, key, nil), &entry)
	if err != nil {
		return errors.Wrapf(err, "error storing entity %s with key %s", s.kind, key)
	}
	return nil
}

func (s *datastoreStore) Ping(c context.Context) error {
	err := s.client.Get(c, datastore.NameKey(s.kind, "_ping", nil), &datastoreEntry{})
	if err != nil && err != datastore.ErrNoSuchEntity {
		return errors.Wrap(err, "error pinging datastore")
	}
	return nil
}
