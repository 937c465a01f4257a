package mystore

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	redis "github.com/redis/go-redis/v9"

	"github.com/floresvictoria/shopbackend/lib/myconfig"
	"github.com/floresvictoria/shopbackend/lib/mylog"
)

const (
	connectRetries    = 10
	maxConnectBackoff = 30 * time.Second
)

type redisStore struct {
	rdb redis.UniversalClient
}

func newRedisStore(c context.Context, cfg myconfig.StoreConfig, logger mylog.Logger) (*redisStore, func(), error) {
	var rdb redis.UniversalClient

	if len(cfg.RedisSentinelAddrs) > 0 {
		logger.Log(c, "", mylog.SeverityInfo, "Initializing Redis in Sentinel Mode. Master: %s, DB: %d", cfg.RedisMasterName, cfg.RedisDB)

		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.RedisMasterName,
			SentinelAddrs: cfg.RedisSentinelAddrs,
			DB:            cfg.RedisDB,
			DialTimeout:   cfg.RedisTimeout,
			ReadTimeout:   cfg.RedisTimeout,
			WriteTimeout:  cfg.RedisTimeout,
		})
	} else {
		logger.Log(c, "", mylog.SeverityInfo, "Initializing Redis in Single Mode. Addr: %s, DB: %d", cfg.RedisAddr, cfg.RedisDB)

		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			DB:           cfg.RedisDB,
			DialTimeout:  cfg.RedisTimeout,
			ReadTimeout:  cfg.RedisTimeout,
			WriteTimeout: cfg.RedisTimeout,
		})
	}

	err := pingWithBackoff(c, rdb, logger)
	if err != nil {
		rdb.Close()
		return nil, func() {}, err
	}

	return &redisStore{rdb: rdb}, func() {
		rdb.Close()
	}, nil
}

func pingWithBackoff(c context.Context, rdb redis.UniversalClient, logger mylog.Logger) error {
	for i := 0; i < connectRetries; i++ {
		pingCtx, cancel := context.WithTimeout(c, 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			logger.Log(c, "", mylog.SeverityInfo, "Connected to redis")
			return nil
		}

		if i == connectRetries-1 {
			return fmt.Errorf("failed to connect to redis after %d retries: %w", connectRetries, err)
		}

		backoff := time.Duration(1<<i) * time.Second
		if backoff > maxConnectBackoff {
			backoff = maxConnectBackoff
		}
		logger.Log(c, "", mylog.SeverityWarn, "Redis not ready, retry in %v... (%d/%d)", backoff, i+1, connectRetries)

		select {
		case <-time.After(backoff):
		case <-c.Done():
			return c.Err()
		}
	}
	return nil
}

func (s *redisStore) Get(c context.Context, key string) ([]byte, bool, error) {
	value, err := s.rdb.Get(c, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "error fetching key %s", key)
	}
	return value, true, nil
}

func (s *redisStore) Put(c context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.rdb.Set(c, key, value, ttl).Err()
	if err != nil {
		return errors.Wrapf(err, "error storing key %s", key)
	}
	return nil
}

func (s *redisStore) Ping(c context.Context) error {
	err := s.rdb.Ping(c).Err()
	if err != nil {
		return errors.Wrap(err, "error pinging redis")
	}
	return nil
}
