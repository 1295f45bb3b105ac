package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"btc-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type fakePrimary struct {
	candles []*domain.Candle
	err     error
	calls   int
}

func (f *fakePrimary) FetchKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Candle, error) {
	f.calls++
	return f.candles, f.err
}

type fakeFallback struct {
	candles []*domain.Candle
	err     error
	calls   int
}

func (f *fakeFallback) FetchHourlyCandles(ctx context.Context, limit int) ([]*domain.Candle, error) {
	f.calls++
	return f.candles, f.err
}

func series(n int) []*domain.Candle {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*domain.Candle, n)
	for i := range out {
		out[i] = &domain.Candle{
			OpenTime:  base.Add(time.Duration(i) * time.Hour),
			CloseTime: base.Add(time.Duration(i+1) * time.Hour),
			Open:      100, High: 101, Low: 99, Close: 100, Volume: 1000,
		}
	}
	return out
}

func newTestChain(primary PrimarySource, fallback FallbackSource) *Chain {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	return NewChain(tracer, primary, fallback, "BTCUSDT", "1h", 100)
}

func TestChainPrimaryHealthy(t *testing.T) {
	primary := &fakePrimary{candles: series(3)}
	fallback := &fakeFallback{candles: series(50)}
	chain := newTestChain(primary, fallback)

	candles, err := chain.GetCandles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 3 {
		t.Fatalf("expected primary series, got %d candles", len(candles))
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback must not be invoked when primary is healthy, got %d calls", fallback.calls)
	}
}

func TestChainFallbackOnBlockedPrimary(t *testing.T) {
	primary := &fakePrimary{err: &domain.HTTPError{StatusCode: 429, Body: "rate limited"}}
	fallback := &fakeFallback{candles: series(50)}
	chain := newTestChain(primary, fallback)

	candles, err := chain.GetCandles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 50 {
		t.Fatalf("expected fallback series, got %d candles", len(candles))
	}
	if fallback.calls != 1 {
		t.Fatalf("expected exactly one fallback call, got %d", fallback.calls)
	}
}

func TestChainFallbackOnShortPrimarySeries(t *testing.T) {
	primary := &fakePrimary{candles: series(2)}
	fallback := &fakeFallback{candles: series(50)}
	chain := newTestChain(primary, fallback)

	candles, err := chain.GetCandles(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 50 {
		t.Fatalf("expected fallback series, got %d candles", len(candles))
	}
}

func TestChainBothSourcesFail(t *testing.T) {
	primary := &fakePrimary{err: errors.New("connection refused")}
	fallback := &fakeFallback{err: errors.New("resampled series too short")}
	chain := newTestChain(primary, fallback)

	_, err := chain.GetCandles(context.Background())
	if !errors.Is(err, domain.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}
