package myconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	BackendRedis     = "redis"
	BackendDatastore = "datastore"
	BackendMemory    = "memory"
)

type Config struct {
	Port            string
	LogLevel        string
	JWTSecret       string
	GoogleProject   string
	ShutdownTimeout time.Duration

	Store StoreConfig
}

type StoreConfig struct {
	Backend            string
	TTL                time.Duration
	RedisAddr          string
	RedisDB            int
	RedisSentinelAddrs []string
	RedisMasterName    string
	RedisTimeout       time.Duration
	DatastoreKind      string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("GOOGLE_CLOUD_PROJECT", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("STORE_BACKEND", BackendRedis)
	v.SetDefault("BASKET_TTL", "24h")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_SENTINEL_ADDRS", "")
	v.SetDefault("REDIS_MASTER_NAME", "mymaster")
	v.SetDefault("REDIS_TIMEOUT", "500ms")
	v.SetDefault("DATASTORE_KIND", "BasketEntry")
}

// Load reads the optional config file first; environment variables always win.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		err := v.ReadInConfig()
		if err != nil {
			return Config{}, errors.Wrapf(err, "error reading config file %s", configFile)
		}
	}

	cfg := Config{
		Port:            v.GetString("PORT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		GoogleProject:   v.GetString("GOOGLE_CLOUD_PROJECT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		Store: StoreConfig{
			Backend:            strings.ToLower(v.GetString("STORE_BACKEND")),
			TTL:                v.GetDuration("BASKET_TTL"),
			RedisAddr:          v.GetString("REDIS_ADDR"),
			RedisDB:            v.GetInt("REDIS_DB"),
			RedisSentinelAddrs: splitList(v.GetString("REDIS_SENTINEL_ADDRS")),
			RedisMasterName:    v.GetString("REDIS_MASTER_NAME"),
			RedisTimeout:       v.GetDuration("REDIS_TIMEOUT"),
			DatastoreKind:      v.GetString("DATASTORE_KIND"),
		},
	}

	err := cfg.validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Store.TTL <= 0 {
		return fmt.Errorf("BASKET_TTL must be positive, got %s", c.Store.TTL)
	}
	switch c.Store.Backend {
	case BackendRedis, BackendMemory:
	case BackendDatastore:
		if c.GoogleProject == "" {
			return fmt.Errorf("STORE_BACKEND=%s requires GOOGLE_CLOUD_PROJECT", BackendDatastore)
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.Store.Backend)
	}
	return nil
}

func splitList(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
