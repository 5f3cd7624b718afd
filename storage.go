package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewBookRepository builds the repository selected by the store configuration.
// The returned cleanup releases the underlying client when needed.
func NewBookRepository(logger *zap.Logger, config *Config, redisClient *redis.Client) (BookRepository, func(), error) {
	noop := func() {}
	switch config.Store.Repository {
	case HTTPRepository:
		return NewHTTPBookRepository(logger, &config.Remote, nil), noop, nil

	case RedisRepository:
		if redisClient == nil {
			return nil, noop, fmt.Errorf("redis repository requires a redis client")
		}
		return NewRedisBookRepository(logger, redisClient), noop, nil

	case BoltRepository:
		client, err := GetBoltDBClient(config)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to boltDB: %s", err)
		}
		closer := func() {
			if cerr := client.Close(); cerr != nil {
				logger.Error("failed to close boltDB", zap.Error(cerr))
			}
		}
		return NewBoltBookRepository(logger, &config.BoltDB, client), closer, nil

	case PostgresRepository:
		pool, err := GetPostgresPool(config, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to postgres: %s", err)
		}
		return NewPostgresBookRepository(logger, pool), pool.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown repository driver %q", config.Store.Repository)
}
