package rdx

import (
	"os"
	"time"

	"kedai/globals"

	"github.com/redis/go-redis/v9"
)

// Conn is the shared Redis client used for caching, locks and pub/sub.
var Conn = redis.NewClient(&redis.Options{
	Addr: redisAddr(),
})

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func RdxGet(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

func RdxSet(key, value string) error {
	return Conn.Set(globals.Ctx, key, value, 0).Err()
}

// RdxSetWithTTL caches a value with an expiry.
func RdxSetWithTTL(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

func RdxDel(key string) error {
	return Conn.Del(globals.Ctx, key).Err()
}

// RdxSetNX acquires key as a lock for ttl; returns true when acquired.
func RdxSetNX(key, value string, ttl time.Duration) (bool, error) {
	return Conn.SetNX(globals.Ctx, key, value, ttl).Result()
}
