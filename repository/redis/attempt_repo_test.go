package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// openTestClient connects to TEST_REDIS_URL.
func openTestClient(t *testing.T) *redislib.Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redislib.ParseURL(url)
	if err != nil {
		t.Fatalf("ParseURL: %v", err)
	}
	client := redislib.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestAttemptCounterCountsWithinWindow(t *testing.T) {
	client := openTestClient(t)
	counter := NewAttemptCounter(client)
	ctx := context.Background()
	key := "login:" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, "ratelimit:"+key) })

	for want := 1; want <= 3; want++ {
		got, err := counter.Hit(ctx, key, time.Minute)
		if err != nil {
			t.Fatalf("Hit: %v", err)
		}
		if got != want {
			t.Errorf("Expected count %d, got %d", want, got)
		}
	}

	ttl, err := client.TTL(ctx, "ratelimit:"+key).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("Expected the counter to expire within the window, got TTL %s", ttl)
	}
}

func TestAttemptCounterWindowResets(t *testing.T) {
	client := openTestClient(t)
	counter := NewAttemptCounter(client)
	ctx := context.Background()
	key := "register:" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, "ratelimit:"+key) })

	for i := 0; i < 3; i++ {
		if _, err := counter.Hit(ctx, key, time.Second); err != nil {
			t.Fatalf("Hit: %v", err)
		}
	}
	time.Sleep(1500 * time.Millisecond)

	got, err := counter.Hit(ctx, key, time.Second)
	if err != nil {
		t.Fatalf("Hit: %v", err)
	}
	if got != 1 {
		t.Errorf("Expected a fresh window after expiry, got count %d", got)
	}
}

func TestAttemptCounterCanceledContext(t *testing.T) {
	client := openTestClient(t)
	counter := NewAttemptCounter(client)
	key := "login:" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), "ratelimit:"+key) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := counter.Hit(ctx, key, time.Minute); err == nil {
		t.Fatal("Expected an error for a canceled context")
	}

	ttl, err := client.TTL(context.Background(), "ratelimit:"+key).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	// -2: absent. A key without expiry would report -1.
	if ttl == -1 {
		t.Error("Expected no counter left without a TTL")
	}
}
