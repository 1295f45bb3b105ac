package scoring

import (
	"btc-pulse/internal/config"
	"btc-pulse/internal/domain"
)

// Verdict cut points on the aggregated score.
const (
	buyThreshold  = 0.6
	sellThreshold = 0.4
)

// categoryWeight maps a category name to its configured weight.
func categoryWeight(name string, w config.Weights) float64 {
	switch name {
	case domain.SignalTrend:
		return w.Trend
	case domain.SignalVolume:
		return w.Volume
	case domain.SignalRSI:
		return w.RSI
	case domain.SignalFunding:
		return w.Funding
	case domain.SignalFearGreed:
		return w.FearGreed
	case domain.SignalVolatility:
		return w.Volatility
	}
	return 0
}

// Aggregate blends the six category signals into one weighted score and
// classifies it. Every category stays in the weighted sum even when its value
// is the neutral default, so missing inputs dilute toward neutral instead of
// dropping out of the denominator. Summation follows the fixed category order
// so identical inputs always produce the identical float.
func Aggregate(signals domain.SignalMap, w config.Weights) (float64, domain.Verdict) {
	var totalWeight float64
	for _, name := range domain.SignalCategories {
		totalWeight += categoryWeight(name, w)
	}

	score := 0.5
	if totalWeight > 0 {
		score = 0.0
		for _, name := range domain.SignalCategories {
			value, ok := signals[name]
			if !ok {
				value = 0.5
			}
			score += value * categoryWeight(name, w)
		}
		score /= totalWeight
	}

	verdict := domain.VerdictNeutral
	switch {
	case score >= buyThreshold:
		verdict = domain.VerdictBuy
	case score <= sellThreshold:
		verdict = domain.VerdictSell
	}
	return score, verdict
}
