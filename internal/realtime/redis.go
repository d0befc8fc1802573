package realtime

import (
	"github.com/redis/go-redis/v9"
)

// NewRedis creates a new Redis client.
func NewRedis(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}
