package provider

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterBurstWithinCapacity(t *testing.T) {
	t.Parallel()

	r := NewRateLimiter(3, time.Hour)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := r.Wait(ctx); err != nil {
			t.Fatalf("unexpected error on call %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("expected burst within capacity to not block, took %v", elapsed)
	}
}

func TestRateLimiterBlocksWhenExhausted(t *testing.T) {
	t.Parallel()

	r := NewRateLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := r.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	if err := r.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("expected exhausted bucket to wait for a refill, waited only %v", elapsed)
	}
}

func TestRateLimiterRefillCapped(t *testing.T) {
	t.Parallel()

	r := NewRateLimiter(2, 10*time.Millisecond)
	ctx := context.Background()

	// Drain, then idle long enough to refill many intervals over.
	r.Wait(ctx)
	r.Wait(ctx)
	time.Sleep(100 * time.Millisecond)

	if !r.take() || !r.take() {
		t.Fatal("expected two immediate tokens after refill")
	}
	if r.take() {
		t.Fatal("expected refill capped at capacity, got a third token")
	}
}

func TestRateLimiterContextCancel(t *testing.T) {
	t.Parallel()

	r := NewRateLimiter(1, time.Hour)
	if err := r.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := r.Wait(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
