package scoring

import (
	"btc-pulse/internal/domain"
	"btc-pulse/internal/ta"
)

const (
	maFastWindow     = 50
	maSlowWindow     = 200
	volumeAvgWindow  = 7
	volatilityWindow = 14
)

// IndicatorSet holds the derived values for the latest candle of a series.
// Undefined values (insufficient history) are NaN.
type IndicatorSet struct {
	Price      float64
	Volume     float64
	MAFast     float64
	MASlow     float64
	RSI        float64
	VolumeAvg  float64
	Volatility float64
}

// ComputeIndicators derives the indicator set from a candle series. Pure, no
// I/O; only the final element's values are kept.
func ComputeIndicators(candles []*domain.Candle, rsiPeriod int) IndicatorSet {
	closes := domain.Closes(candles)
	volumes := domain.Volumes(candles)
	latest := candles[len(candles)-1]

	return IndicatorSet{
		Price:      latest.Close,
		Volume:     latest.Volume,
		MAFast:     ta.SMA(closes, maFastWindow),
		MASlow:     ta.SMA(closes, maSlowWindow),
		RSI:        ta.WilderRSI(closes, rsiPeriod),
		VolumeAvg:  ta.SMA(volumes, volumeAvgWindow),
		Volatility: ta.PctChangeStd(closes, volatilityWindow),
	}
}
