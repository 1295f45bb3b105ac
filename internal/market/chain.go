// Package market orders the candle sources and hides fallback selection from
// the rest of the pipeline: both paths exit with the identical candle schema.
package market

import (
	"context"
	"fmt"
	"log"

	"btc-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// minPrimaryRows is the smallest primary series worth analyzing; anything
// shorter is treated as a primary failure.
const minPrimaryRows = 3

// PrimarySource serves native klines for a symbol/interval.
type PrimarySource interface {
	FetchKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Candle, error)
}

// FallbackSource serves resampled hourly candles when the primary is down.
type FallbackSource interface {
	FetchHourlyCandles(ctx context.Context, limit int) ([]*domain.Candle, error)
}

// Chain tries the primary source and transparently substitutes the fallback
// when the primary fails or yields too few rows.
type Chain struct {
	tracer   trace.Tracer
	primary  PrimarySource
	fallback FallbackSource
	symbol   string
	interval string
	limit    int
}

func NewChain(tracer trace.Tracer, primary PrimarySource, fallback FallbackSource, symbol, interval string, limit int) *Chain {
	return &Chain{
		tracer:   tracer,
		primary:  primary,
		fallback: fallback,
		symbol:   symbol,
		interval: interval,
		limit:    limit,
	}
}

// GetCandles returns a usable candle series or domain.ErrDataUnavailable when
// both sources fail.
func (c *Chain) GetCandles(ctx context.Context) ([]*domain.Candle, error) {
	ctx, span := c.tracer.Start(ctx, "market.get-candles")
	defer span.End()

	candles, err := c.primary.FetchKlines(ctx, c.symbol, c.interval, c.limit)
	if err == nil && len(candles) >= minPrimaryRows {
		return candles, nil
	}
	if err == nil {
		err = fmt.Errorf("primary returned only %d rows", len(candles))
	}

	if domain.IsBlockedStatus(err) {
		log.Printf("primary source blocked us, using fallback: %v", err)
	} else {
		log.Printf("primary source failed, using fallback: %v", err)
	}

	fb, fbErr := c.fallback.FetchHourlyCandles(ctx, c.limit)
	if fbErr != nil {
		return nil, fmt.Errorf("%w: primary: %v; fallback: %v", domain.ErrDataUnavailable, err, fbErr)
	}
	return fb, nil
}
