// File: /database/redis.go
package database

import "github.com/redis/go-redis/v9"

// ConnectRedis returns nil when addr is empty; callers treat that as
// "no cache, no cross-instance fan-out".
func ConnectRedis(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}
