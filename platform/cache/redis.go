package cache

import (
	"time"

	"github.com/gomodule/redigo/redis"
)

// CreateRedisPool dials addr lazily; connections idle for a minute are dropped.
func CreateRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 60 * time.Second,
		Dial:        func() (redis.Conn, error) { return redis.Dial("tcp", addr) },
	}
}
