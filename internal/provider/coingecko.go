package provider

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"btc-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	coingeckoBaseURL = "https://api.coingecko.com/api/v3"
	coingeckoAssetID = "bitcoin"
	coingeckoVsCcy   = "usd"
)

// minResampledCandles is the floor below which a resampled series is treated
// as unusable and the fallback counts as failed.
const minResampledCandles = 10

// CoinGeckoProvider is the lower-fidelity fallback source. It serves a
// point-price series that gets resampled into hourly candles, plus a spot
// quote for the degraded path. Rate limited to the free-tier budget
// (8 requests per minute, one token every 7.5 seconds).
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewCoinGeckoProvider(tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

// FetchHourlyCandles fetches market_chart price/volume points covering enough
// days for limit hourly buckets and resamples them into candles. Returns an
// error when fewer than minResampledCandles buckets survive.
func (p *CoinGeckoProvider) FetchHourlyCandles(ctx context.Context, limit int) ([]*domain.Candle, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-hourly-candles")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	days := limit/24 + 1
	reqURL := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=%s&days=%d&interval=hourly",
		p.baseURL, coingeckoAssetID, coingeckoVsCcy, days)

	var raw struct {
		Prices       [][]float64 `json:"prices"`
		TotalVolumes [][]float64 `json:"total_volumes"`
	}
	if err := fetchJSON(ctx, p.client, reqURL, 2, &raw); err != nil {
		return nil, fmt.Errorf("fetch market chart: %w", err)
	}

	candles := resampleHourly(raw.Prices, raw.TotalVolumes)
	if len(candles) < minResampledCandles {
		return nil, fmt.Errorf("resampled series too short: %d candles", len(candles))
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

// FetchSpotPrice fetches the current spot quote. Single attempt; this is the
// last-resort price for a degraded result, not worth a retry storm.
func (p *CoinGeckoProvider) FetchSpotPrice(ctx context.Context) (float64, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-spot-price")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		p.baseURL, coingeckoAssetID, coingeckoVsCcy)

	var raw map[string]map[string]float64
	if err := fetchJSON(ctx, p.client, reqURL, 1, &raw); err != nil {
		return 0, fmt.Errorf("fetch spot price: %w", err)
	}

	price, ok := raw[coingeckoAssetID][coingeckoVsCcy]
	if !ok || price <= 0 {
		return 0, fmt.Errorf("spot price missing from response")
	}
	return price, nil
}

// resampleHourly buckets [timestamp-ms, value] points by truncating timestamps
// to the hour: open is the first price in the bucket, high/low the extremes,
// close the last price, volume the sum of the bucket's volume points. Buckets
// with no price data are discarded. The bucket hour becomes the close time and
// open time is synthesized one hour earlier, since the point series has no
// native open-time concept.
func resampleHourly(prices, volumes [][]float64) []*domain.Candle {
	if len(prices) == 0 {
		return nil
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i][0] < prices[j][0] })

	type bucket struct {
		open   float64
		high   float64
		low    float64
		close  float64
		volume float64
	}
	buckets := make(map[int64]*bucket)

	for _, pt := range prices {
		if len(pt) < 2 {
			continue
		}
		ts := time.UnixMilli(int64(pt[0])).UTC().Truncate(time.Hour).UnixMilli()
		price := pt[1]

		b, ok := buckets[ts]
		if !ok {
			buckets[ts] = &bucket{open: price, high: price, low: price, close: price}
			continue
		}
		b.high = math.Max(b.high, price)
		b.low = math.Min(b.low, price)
		b.close = price
	}

	for _, pt := range volumes {
		if len(pt) < 2 {
			continue
		}
		ts := time.UnixMilli(int64(pt[0])).UTC().Truncate(time.Hour).UnixMilli()
		if b, ok := buckets[ts]; ok {
			b.volume += pt[1]
		}
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	candles := make([]*domain.Candle, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		closeTime := time.UnixMilli(k).UTC()
		candles = append(candles, &domain.Candle{
			OpenTime:  closeTime.Add(-time.Hour),
			CloseTime: closeTime,
			Open:      b.open,
			High:      b.high,
			Low:       b.low,
			Close:     b.close,
			Volume:    b.volume,
		})
	}
	return candles
}
