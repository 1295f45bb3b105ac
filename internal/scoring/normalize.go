package scoring

import (
	"log"
	"math"

	"btc-pulse/internal/config"
)

// volumeLullRatio is the floor below which current volume counts as a lull.
// The gap between it and the configured multiplier maps to 0.5.
const volumeLullRatio = 0.8

// volatilityCeiling caps realized volatility for normalization.
const volatilityCeiling = 0.10

// orNeutral evaluates one signal and substitutes the neutral 0.5 for panics
// and non-finite results. Every category goes through this guard so a numeric
// edge case in one signal can never abort the pipeline.
func orNeutral(name string, fn func() float64) (v float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("signal %s failed, substituting neutral: %v", name, r)
			v = 0.5
		}
	}()
	v = fn()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.5
	}
	return clamp01(v)
}

// TrendSignal is 1 when price sits above both moving averages, 0 below both,
// 0.5 for a mixed picture or undefined averages.
func TrendSignal(price, maFast, maSlow float64) float64 {
	if math.IsNaN(maFast) || math.IsNaN(maSlow) {
		return 0.5
	}
	switch {
	case price > maFast && price > maSlow:
		return 1.0
	case price < maFast && price < maSlow:
		return 0.0
	default:
		return 0.5
	}
}

// VolumeSignal scores current volume against its trailing average. The
// inequality directions are load-bearing: >= multiplier is 1.0, < 0.8 is 0.0,
// the band between maps to 0.5.
func VolumeSignal(volume, volumeAvg float64, th config.Thresholds) float64 {
	if math.IsNaN(volumeAvg) || volumeAvg == 0 {
		return 0.5
	}
	ratio := volume / volumeAvg
	switch {
	case ratio >= th.VolumeMultiplier:
		return 1.0
	case ratio < volumeLullRatio:
		return 0.0
	default:
		return 0.5
	}
}

// RSISignal inverts RSI into bullishness: oversold extremes score 1, overbought
// extremes 0, linear in between.
func RSISignal(rsi float64, th config.Thresholds) float64 {
	if math.IsNaN(rsi) {
		return 0.5
	}
	switch {
	case rsi >= th.RSIOverbought:
		return 0.0
	case rsi <= th.RSIOversold:
		return 1.0
	default:
		return clamp01(1 - (rsi-th.RSIOversold)/(th.RSIOverbought-th.RSIOversold))
	}
}

// FundingSignal treats a crowded long (high positive funding) as bearish and
// a crowded short as bullish, linear around zero.
func FundingSignal(rate float64, th config.Thresholds) float64 {
	if math.IsNaN(rate) {
		return 0.5
	}
	switch {
	case rate >= th.FundingHigh:
		return 0.0
	case rate <= -th.FundingHigh:
		return 1.0
	default:
		return clamp01(0.5 - rate/(2*th.FundingHigh))
	}
}

// FearGreedSignal is contrarian: greed scores 0, fear scores 1, linear in
// between.
func FearGreedSignal(value float64, th config.Thresholds) float64 {
	if math.IsNaN(value) {
		return 0.5
	}
	switch {
	case value >= th.FearGreedGreedy:
		return 0.0
	case value <= th.FearGreedFearful:
		return 1.0
	default:
		return clamp01(1 - (value-th.FearGreedFearful)/(th.FearGreedGreedy-th.FearGreedFearful))
	}
}

// VolatilitySignal rewards a calm market: realized volatility is clamped to
// the ceiling and inverted.
func VolatilitySignal(volatility float64) float64 {
	if math.IsNaN(volatility) {
		return 0.5
	}
	capped := math.Min(math.Max(volatility, 0), volatilityCeiling)
	return 1 - capped/volatilityCeiling
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.5
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
