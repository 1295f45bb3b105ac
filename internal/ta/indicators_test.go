package ta

import (
	"math"
	"testing"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	if got := SMA(values, 3); got != 4 {
		t.Fatalf("expected trailing mean 4, got %f", got)
	}
	if got := SMA(values, 5); got != 3 {
		t.Fatalf("expected mean 3, got %f", got)
	}
	if got := SMA(values, 6); !math.IsNaN(got) {
		t.Fatalf("expected NaN for insufficient history, got %f", got)
	}
	if got := SMA(values, 0); !math.IsNaN(got) {
		t.Fatalf("expected NaN for zero window, got %f", got)
	}
}

func TestWilderRSIMonotonicIncreasing(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi := WilderRSI(closes, 14)
	if rsi != 100 {
		t.Fatalf("expected RSI 100 for strictly rising series, got %f", rsi)
	}
}

func TestWilderRSIMonotonicDecreasing(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 400 - float64(i)
	}
	rsi := WilderRSI(closes, 14)
	if rsi != 0 {
		t.Fatalf("expected RSI 0 for strictly falling series, got %f", rsi)
	}
}

func TestWilderRSIBounded(t *testing.T) {
	closes := []float64{100, 102, 101, 104, 103, 107, 105, 108, 106, 110, 109, 111, 108, 112, 110, 113}
	rsi := WilderRSI(closes, 14)
	if math.IsNaN(rsi) || rsi < 0 || rsi > 100 {
		t.Fatalf("expected RSI in [0,100], got %f", rsi)
	}
	if rsi <= 50 {
		t.Fatalf("expected RSI above 50 for mostly rising series, got %f", rsi)
	}
}

func TestWilderRSIInsufficientHistory(t *testing.T) {
	if got := WilderRSI([]float64{100}, 14); !math.IsNaN(got) {
		t.Fatalf("expected NaN for a single close, got %f", got)
	}
	if got := WilderRSI(nil, 14); !math.IsNaN(got) {
		t.Fatalf("expected NaN for empty series, got %f", got)
	}
}

func TestPctChangeStdConstantGrowth(t *testing.T) {
	// Constant percentage growth has zero return variance.
	closes := make([]float64, 20)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		closes[i] = closes[i-1] * 1.01
	}
	got := PctChangeStd(closes, 14)
	if math.Abs(got) > 1e-12 {
		t.Fatalf("expected ~0 volatility for constant growth, got %g", got)
	}
}

func TestPctChangeStdInsufficientHistory(t *testing.T) {
	closes := []float64{100, 101, 102}
	if got := PctChangeStd(closes, 14); !math.IsNaN(got) {
		t.Fatalf("expected NaN for insufficient history, got %f", got)
	}
}

func TestPctChangeStdSampleVariance(t *testing.T) {
	// Returns of {100, 110, 99} are +0.10 and -0.10; sample std with ddof=1
	// is sqrt(2*0.01) = 0.141421...
	closes := []float64{100, 110, 99}
	got := PctChangeStd(closes, 2)
	want := math.Sqrt(0.02)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, got)
	}
}
