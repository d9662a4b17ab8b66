package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/duration"

	"github.com/relaxedbase/relaxedbase/internal/cache"
)

type cachingConf struct {
	RedisAddr     string                  `yaml:"redis_addr"`
	Username      string                  `yaml:"username"`
	Password      string                  `yaml:"password"`
	RedisDB       int                     `yaml:"redis_db"`
	Disabled      bool                    `yaml:"disabled"`
	MaxLifetime   duration.DurationOption `yaml:"max_lifetime"`
	MemoryMaxSize int                     `yaml:"memory_max_size"`
}

func (c *cachingConf) validate() error {
	if c.MaxLifetime.Duration() < 0 {
		return errors.New("error in caching conf: max_lifetime must not be negative")
	}
	return nil
}

var defaultCachingConf = cachingConf{
	MaxLifetime:   duration.DurationOption(time.Minute),
	MemoryMaxSize: 10000,
}

// NewCache creates the response cache described by the caching config:
// redis if an address is configured, an in-memory cache otherwise
func NewCache(ctx context.Context, c Config) (cache.Cache, error) {
	conf := c.Caching
	if conf.Disabled {
		log.Info("Response cache disabled")
		return cache.Noop{}, nil
	}
	if conf.RedisAddr != "" {
		rc, err := cache.NewRedisCache(
			ctx, &redis.Options{
				Addr:     conf.RedisAddr,
				Username: conf.Username,
				Password: conf.Password,
				DB:       conf.RedisDB,
			},
		)
		if err != nil {
			return nil, err
		}
		log.Info("Loaded Redis Cache")
		return rc, nil
	}
	mc, err := cache.NewMemoryCache(conf.MemoryMaxSize)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded in-memory Cache")
	return mc, nil
}
