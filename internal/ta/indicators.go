// Package ta holds the pure indicator math. Insufficient history yields NaN,
// never zero.
package ta

import "math"

// SMA returns the trailing mean of the last window values.
func SMA(values []float64, window int) float64 {
	if window <= 0 || len(values) < window {
		return math.NaN()
	}
	var sum float64
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window)
}

// WilderRSI computes the RSI of the final element using exponential smoothing
// with alpha = 1/period on the gain and loss streams, each seeded from its
// first delta rather than a simple-average seed.
func WilderRSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < 2 {
		return math.NaN()
	}

	alpha := 1.0 / float64(period)
	var gainEMA, lossEMA float64
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain := math.Max(delta, 0)
		loss := math.Max(-delta, 0)
		if i == 1 {
			gainEMA, lossEMA = gain, loss
			continue
		}
		gainEMA = alpha*gain + (1-alpha)*gainEMA
		lossEMA = alpha*loss + (1-alpha)*lossEMA
	}

	// Zero losses saturate toward maximally bullish instead of dividing by zero.
	if lossEMA == 0 {
		return 100
	}
	rs := gainEMA / lossEMA
	return 100 - 100/(1+rs)
}

// PctChangeStd returns the sample standard deviation of the percentage change
// of the last window consecutive values.
func PctChangeStd(values []float64, window int) float64 {
	if window <= 1 || len(values) < window+1 {
		return math.NaN()
	}

	returns := make([]float64, 0, window)
	for i := len(values) - window; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			return math.NaN()
		}
		returns = append(returns, values[i]/prev-1)
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)
	return math.Sqrt(variance)
}
