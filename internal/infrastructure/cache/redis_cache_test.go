package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Runs only when CQ_TEST_REDIS_ADDR points at a disposable server.
func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("CQ_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CQ_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		_ = client.Close()
	})
	cache := NewRedisCache(client, "condoqueixas-test:")
	ctx := context.Background()

	if err := cache.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if err := cache.Set(ctx, "complaint_status:c-1", "RESOLVIDA", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, found, err := cache.Get(ctx, "complaint_status:c-1")
	if err != nil || !found || value != "RESOLVIDA" {
		t.Fatalf("Get() = %q, %v, %v", value, found, err)
	}
	if err := cache.Delete(ctx, "complaint_status:c-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found, _ := cache.Get(ctx, "complaint_status:c-1"); found {
		t.Fatalf("Get() after delete found=true")
	}
}
