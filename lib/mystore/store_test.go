package mystore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/floresvictoria/shopbackend/lib/myconfig"
	"github.com/floresvictoria/shopbackend/lib/mylog"
	"github.com/floresvictoria/shopbackend/lib/mytime"
)

func TestInMemoryStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := context.TODO()
	nower := mytime.NewMockNower(ctrl)
	sut, cleanup, err := NewInMemoryStore(nower)
	require.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := sut.Get(c, "cart:user123")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		err := sut.Put(c, "cart:user123", []byte(`{"items":[]}`), time.Hour)
		assert.NoError(t, err)
	})

	t.Run("Get found before expiry", func(t *testing.T) {
		nower.EXPECT().Now().Return(mytime.ExampleTime.Add(59 * time.Minute))
		value, found, err := sut.Get(c, "cart:user123")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"items":[]}`, string(value))
	})

	t.Run("Get not found after expiry", func(t *testing.T) {
		nower.EXPECT().Now().Return(mytime.ExampleTime.Add(time.Hour))
		_, found, err := sut.Get(c, "cart:user123")
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRedisStore(t *testing.T) {
	c := context.TODO()
	server := miniredis.RunT(t)

	sut, cleanup, err := newRedisStore(c, myconfig.StoreConfig{
		RedisAddr:    server.Addr(),
		RedisTimeout: time.Second,
	}, mylog.New("test"))
	require.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := sut.Get(c, "wishlist:user456")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put sets value and ttl", func(t *testing.T) {
		err := sut.Put(c, "wishlist:user456", []byte(`{"items":[]}`), 24*time.Hour)
		assert.NoError(t, err)

		got, err := server.Get("wishlist:user456")
		assert.NoError(t, err)
		assert.Equal(t, `{"items":[]}`, got)
		assert.Equal(t, 24*time.Hour, server.TTL("wishlist:user456"))
	})

	t.Run("Get found", func(t *testing.T) {
		value, found, err := sut.Get(c, "wishlist:user456")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"items":[]}`, string(value))
	})

	t.Run("Expired", func(t *testing.T) {
		server.FastForward(24 * time.Hour)
		_, found, err := sut.Get(c, "wishlist:user456")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, sut.Ping(c))
	})

	t.Run("Server error", func(t *testing.T) {
		server.SetError("ERR backend broken")
		defer server.SetError("")

		_, _, err := sut.Get(c, "wishlist:user456")
		assert.Error(t, err)
	})
}

func TestBreakerStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := context.TODO()

	t.Run("Passes through", func(t *testing.T) {
		next := NewMockStore(ctrl)
		sut := newBreakerStore("test", next, mylog.New("test"))
		next.EXPECT().Get(c, "cart:u").Return([]byte("{}"), true, nil)

		value, found, err := sut.Get(c, "cart:u")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "{}", string(value))
	})

	t.Run("Opens after repeated failures", func(t *testing.T) {
		next := NewMockStore(ctrl)
		sut := newBreakerStore("test", next, mylog.New("test"))
		next.EXPECT().Put(c, "cart:u", gomock.Any(), time.Hour).Return(fmt.Errorf("connection refused")).Times(5)

		for i := 0; i < 5; i++ {
			err := sut.Put(c, "cart:u", []byte("{}"), time.Hour)
			assert.Error(t, err)
			assert.False(t, errors.Is(err, ErrUnavailable))
		}

		// no call reaches the next store while open
		err := sut.Put(c, "cart:u", []byte("{}"), time.Hour)
		assert.True(t, errors.Is(err, ErrUnavailable))
	})
}

func TestNew(t *testing.T) {
	c := context.TODO()

	store, cleanup, err := New(c, myconfig.Config{Store: myconfig.StoreConfig{Backend: myconfig.BackendMemory}}, mytime.RealNower{})
	require.NoError(t, err)
	defer cleanup()
	assert.NoError(t, store.Ping(c))

	_, _, err = New(c, myconfig.Config{Store: myconfig.StoreConfig{Backend: "mongo"}}, mytime.RealNower{})
	assert.Error(t, err)
}
