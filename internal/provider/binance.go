package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"btc-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	binanceBaseURL     = "https://api.binance.com"
	binanceFapiBaseURL = "https://fapi.binance.com"
)

// BinanceProvider fetches spot klines and perpetual funding rates from the
// public Binance REST API.
type BinanceProvider struct {
	client      *http.Client
	baseURL     string
	fapiBaseURL string
	tracer      trace.Tracer
}

func NewBinanceProvider(tracer trace.Tracer) *BinanceProvider {
	return &BinanceProvider{
		client:      &http.Client{Timeout: 15 * time.Second},
		baseURL:     binanceBaseURL,
		fapiBaseURL: binanceFapiBaseURL,
		tracer:      tracer,
	}
}

// FetchKlines fetches the limit most recent klines for symbol/interval and
// converts them to the canonical candle schema.
func (p *BinanceProvider) FetchKlines(ctx context.Context, symbol, interval string, limit int) ([]*domain.Candle, error) {
	_, span := p.tracer.Start(ctx, "binance.fetch-klines")
	defer span.End()

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))
	reqURL := fmt.Sprintf("%s/api/v3/klines?%s", p.baseURL, q.Encode())

	// Kline rows are fixed-width tuples mixing numbers and numeric strings:
	// [openTime, open, high, low, close, volume, closeTime, ...]
	var raw [][]any
	if err := fetchJSON(ctx, p.client, reqURL, 3, &raw); err != nil {
		return nil, fmt.Errorf("fetch klines for %s: %w", symbol, err)
	}

	candles := make([]*domain.Candle, 0, len(raw))
	for _, row := range raw {
		if len(row) < 7 {
			continue
		}
		openMs, err1 := asInt64(row[0])
		closeMs, err2 := asInt64(row[6])
		open, err3 := asFloat(row[1])
		high, err4 := asFloat(row[2])
		low, err5 := asFloat(row[3])
		closePx, err6 := asFloat(row[4])
		volume, err7 := asFloat(row[5])
		for _, err := range []error{err1, err2, err3, err4, err5, err6, err7} {
			if err != nil {
				return nil, fmt.Errorf("parse kline row for %s: %w", symbol, err)
			}
		}
		candles = append(candles, &domain.Candle{
			OpenTime:  time.UnixMilli(openMs).UTC(),
			CloseTime: time.UnixMilli(closeMs).UTC(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePx,
			Volume:    volume,
		})
	}

	return candles, nil
}

// FetchFundingRate fetches the most recent funding rate for the perpetual
// contract of symbol.
func (p *BinanceProvider) FetchFundingRate(ctx context.Context, symbol string) (*domain.FundingRatePoint, error) {
	_, span := p.tracer.Start(ctx, "binance.fetch-funding-rate")
	defer span.End()

	reqURL := fmt.Sprintf("%s/fapi/v1/fundingRate?symbol=%s&limit=1", p.fapiBaseURL, url.QueryEscape(symbol))

	var raw []struct {
		FundingRate string `json:"fundingRate"`
		FundingTime int64  `json:"fundingTime"`
	}
	if err := fetchJSON(ctx, p.client, reqURL, 2, &raw); err != nil {
		return nil, fmt.Errorf("fetch funding rate for %s: %w", symbol, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("funding rate response for %s has no rows", symbol)
	}

	last := raw[len(raw)-1]
	rate, err := strconv.ParseFloat(last.FundingRate, 64)
	if err != nil {
		return nil, fmt.Errorf("parse funding rate %q: %w", last.FundingRate, err)
	}

	return &domain.FundingRatePoint{
		Rate:        rate,
		FundingTime: time.UnixMilli(last.FundingTime).UTC(),
	}, nil
}

func asFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case string:
		return strconv.ParseFloat(t, 64)
	default:
		return 0, fmt.Errorf("unexpected value %v (%T)", v, v)
	}
}

func asInt64(v any) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected value %v (%T)", v, v)
	}
}
