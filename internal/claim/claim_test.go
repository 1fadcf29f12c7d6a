package claim

import (
	"context"
	"errors"
	"testing"
	"time"

	"crypto-fantasy/internal/config"
)

func TestLocalClaimIsExclusive(t *testing.T) {
	g := NewLocal()
	ctx := context.Background()

	release, err := AcquireSettlement(ctx, g, "m1", time.Minute)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := AcquireSettlement(ctx, g, "m1", time.Minute); !errors.Is(err, ErrClaimHeld) {
		t.Fatalf("second acquire err = %v, want ErrClaimHeld", err)
	}
	if _, err := AcquireSettlement(ctx, g, "m2", time.Minute); err != nil {
		t.Fatalf("other key: %v", err)
	}
	release()
	release()
	again, err := AcquireSettlement(ctx, g, "m1", time.Minute)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again()
}

func TestLocalClaimExpires(t *testing.T) {
	g := NewLocal()
	now := time.Unix(1700000000, 0)
	g.now = func() time.Time { return now }

	stale, err := g.Acquire(context.Background(), "k", time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	now = now.Add(2 * time.Second)
	fresh, err := g.Acquire(context.Background(), "k", time.Second)
	if err != nil {
		t.Fatalf("acquire after expiry: %v", err)
	}
	// Releasing the expired claim must not drop the new holder.
	stale()
	if _, err := g.Acquire(context.Background(), "k", time.Second); !errors.Is(err, ErrClaimHeld) {
		t.Fatalf("acquire err = %v, want ErrClaimHeld", err)
	}
	fresh()
}

func TestRedisClaim(t *testing.T) {
	cfg, err := config.LoadTestRedis()
	if err != nil {
		t.Skipf("skip redis: %v", err)
	}
	ctx := context.Background()
	rdb, err := DialRedis(ctx, cfg.TestRedisURL)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer rdb.Close()

	g := NewRedis(rdb)
	key := "test-" + time.Now().Format(time.RFC3339Nano)
	release, err := g.Acquire(ctx, key, 10*time.Second)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := g.Acquire(ctx, key, 10*time.Second); !errors.Is(err, ErrClaimHeld) {
		t.Fatalf("second acquire err = %v, want ErrClaimHeld", err)
	}
	release()
	again, err := g.Acquire(ctx, key, 10*time.Second)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again()
}
