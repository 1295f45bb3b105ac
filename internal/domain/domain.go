package domain

import (
	"errors"
	"fmt"
	"time"
)

// Verdict is the three-way classification derived from the aggregated score.
type Verdict string

const (
	VerdictBuy     Verdict = "BUY"
	VerdictSell    Verdict = "SELL"
	VerdictNeutral Verdict = "NEUTRAL"
)

// Signal category names. Every SignalMap carries exactly these six keys.
const (
	SignalTrend      = "trend"
	SignalVolume     = "volume"
	SignalRSI        = "rsi"
	SignalFunding    = "funding"
	SignalFearGreed  = "fear_greed"
	SignalVolatility = "volatility"
)

// SignalCategories lists the six categories in display order.
var SignalCategories = []string{
	SignalTrend, SignalVolume, SignalRSI,
	SignalFunding, SignalFearGreed, SignalVolatility,
}

// SignalMap maps each category name to a bullishness score in [0,1].
// A failed input source appears as the neutral 0.5, never as a missing key.
type SignalMap map[string]float64

// NeutralSignals returns a SignalMap with every category at 0.5.
func NeutralSignals() SignalMap {
	m := make(SignalMap, len(SignalCategories))
	for _, name := range SignalCategories {
		m[name] = 0.5
	}
	return m
}

// ScoreResult is the outcome of one analyze cycle. Price is nil when no
// price could be obtained from any source. AsOf is the close time of the
// latest analyzed candle, zero on a degraded result. Never mutated after
// creation.
type ScoreResult struct {
	Price   *float64  `json:"price"`
	Score   float64   `json:"score"`
	Verdict Verdict   `json:"verdict"`
	Signals SignalMap `json:"signals"`
	AsOf    time.Time `json:"as_of"`
}

// FundingRatePoint is the latest perpetual funding rate and its time.
type FundingRatePoint struct {
	Rate        float64   `json:"rate"`
	FundingTime time.Time `json:"funding_time"`
}

// FearGreedPoint is the latest Fear & Greed index reading.
type FearGreedPoint struct {
	Value          int       `json:"value"`
	Classification string    `json:"classification"`
	Timestamp      time.Time `json:"timestamp"`
}

// ErrDataUnavailable means no usable market data came from any source.
var ErrDataUnavailable = errors.New("market data unavailable from all sources")

// HTTPError carries the upstream status code so callers can decide whether a
// source is durably blocked (403/429/451) or just flaky.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.StatusCode, e.Body)
}

// IsBlockedStatus reports whether err is an HTTPError with a status that
// indicates the source refuses to serve us (rate limit or geo block).
func IsBlockedStatus(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	switch httpErr.StatusCode {
	case 403, 429, 451:
		return true
	}
	return false
}
