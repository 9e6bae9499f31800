package e2e

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Redis returns a callback that round-trips a value through the Redis
// server at addr: SET, GET, compare, DEL. A mismatch between written
// and read value is an error even when both operations succeed.
func Redis(addr string) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), workflowTimeout)
		defer cancel()

		client := goredis.NewClient(&goredis.Options{
			Addr:        addr,
			DialTimeout: connectTimeout,
		})
		defer client.Close()

		key := "smokecheck:e2e"
		value := fmt.Sprintf("end-to-end-%d", time.Now().UnixNano())

		if err := client.Set(ctx, key, value, time.Minute).Err(); err != nil {
			return fmt.Errorf("redis set: %w", err)
		}
		got, err := client.Get(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("redis get: %w", err)
		}
		if got != value {
			return fmt.Errorf("redis value mismatch: got %q, want %q", got, value)
		}
		if err := client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		return nil
	}
}
