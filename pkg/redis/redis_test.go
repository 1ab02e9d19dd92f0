package redis

import (
	"context"
	"testing"
	"time"

	"github.com/growthroom/growthbrief/pkg/config"
)

func TestDisabledClientIsNoop(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.Enabled = false

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}

	cache := NewCache(client, "growthbrief")
	ctx := context.Background()

	var dest string
	hit, err := cache.Get(ctx, "prices:AAPL", &dest)
	if err != nil {
		t.Errorf("Get() on disabled cache returned error: %v", err)
	}
	if hit {
		t.Error("Expected cache miss on disabled cache")
	}

	if err := cache.Set(ctx, "prices:AAPL", "value", time.Minute); err != nil {
		t.Errorf("Set() on disabled cache returned error: %v", err)
	}

	if err := cache.Delete(ctx, "prices:AAPL"); err != nil {
		t.Errorf("Delete() on disabled cache returned error: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() returned error: %v", err)
	}
}
