package db

import "context"

// RedisClient is the subset of Redis operations the cache layer needs.
type RedisClient interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Keys(pattern string) ([]string, error)
	Del(keys ...string) error
	GetContext() context.Context
	Ping() error
}
